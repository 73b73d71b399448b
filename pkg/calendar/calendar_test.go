package calendar

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{" 2024-06-03 ", time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), false},
		{"2024-13-01", time.Time{}, true},
		{"01-05-2024", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEndOfDay(t *testing.T) {
	d := time.Date(2024, 6, 3, 15, 4, 5, 0, time.UTC)
	got := EndOfDay(d)
	want := time.Date(2024, 6, 3, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	if !got.Equal(want) {
		t.Errorf("EndOfDay = %v, want %v", got, want)
	}
}

func TestToday_UsesLocation(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC)

	if got := Today(time.UTC, now); Format(got) != "2024-06-03" {
		t.Errorf("Today(UTC) = %s", Format(got))
	}
	if got := Today(kolkata, now); Format(got) != "2024-06-04" {
		t.Errorf("Today(IST) = %s", Format(got))
	}
}

func TestWithin(t *testing.T) {
	start, _ := ParseDate("2024-06-01")
	end, _ := ParseDate("2024-06-03")

	cases := map[string]bool{
		"2024-05-31": false,
		"2024-06-01": true,
		"2024-06-02": true,
		"2024-06-03": true,
		"2024-06-04": false,
	}
	for s, want := range cases {
		d, _ := ParseDate(s)
		if got := Within(d, start, EndOfDay(end)); got != want {
			t.Errorf("Within(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a, _ := ParseDate("2024-02-27")
	b, _ := ParseDate("2024-03-02")
	if got := DaysBetween(a, b); got != 4 {
		t.Errorf("DaysBetween = %d, want 4", got)
	}
	if got := DaysBetween(b, a); got != -4 {
		t.Errorf("DaysBetween reversed = %d, want -4", got)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{"mon", time.Monday, false},
		{"Wednesday", time.Wednesday, false},
		{"SAT", time.Saturday, false},
		{"thurs", time.Thursday, false},
		{"mo", 0, true},
		{"monx", 0, true},
		{"funday", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWeekday(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
