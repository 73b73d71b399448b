package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeIDs(t *testing.T) {
	got := NormalizeIDs([]string{" AA ", "bb", "aa", "", "BB"})
	want := []string{"aa", "bb"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeIDs = %v, want %v", got, want)
	}
}

func TestNormalizeIDs_Empty(t *testing.T) {
	if got := NormalizeIDs(nil); got == nil || len(got) != 0 {
		t.Errorf("NormalizeIDs(nil) = %#v, want empty slice", got)
	}
}

func TestNormalizeWeekdays(t *testing.T) {
	got := NormalizeWeekdays([]string{"Monday", "wed", " MON ", "Wednesday"})
	want := []string{"mon", "wed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeWeekdays = %v, want %v", got, want)
	}
}
