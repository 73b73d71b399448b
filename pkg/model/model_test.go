package model

import (
	"testing"
	"time"
)

func TestSlot_PriceOn(t *testing.T) {
	s := &Slot{Price: WeekPrice{100, 200, 300, 400, 500, 600, 700}}

	// 2024-05-01 is a Wednesday.
	wed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if got := s.PriceOn(wed); got != 400 {
		t.Errorf("PriceOn(wed) = %d, want 400", got)
	}
	sun := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	if got := s.PriceOn(sun); got != 100 {
		t.Errorf("PriceOn(sun) = %d, want 100", got)
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	tests := []struct {
		status BookingStatus
		want   bool
	}{
		{StatusBooked, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
	}
	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("%s.Terminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestActivation_Transitions(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	a := NewActivation(t0)
	if !a.IsActive() {
		t.Fatal("new activation should be active")
	}
	if !a.Deactivate(t1) {
		t.Fatal("first deactivate should change state")
	}
	if a.Deactivate(t1.Add(time.Hour)) {
		t.Error("second deactivate should be a no-op")
	}
	if !a.StateChangedAt.Equal(t1) {
		t.Errorf("StateChangedAt = %v, want %v", a.StateChangedAt, t1)
	}
	if !a.Activate(t1) || !a.IsActive() {
		t.Error("activate should restore active state")
	}
}

func TestProgram_SlotIDs(t *testing.T) {
	p := &Program{MorningSlotIDs: []string{"a", "b"}, EveningSlotIDs: []string{"c"}}
	got := p.SlotIDs()
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("SlotIDs() = %v", got)
	}
}
