package sanitizer

import (
	"testing"

	"turfslot/pkg/locale"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"E.164 india", "+919876543210", "+919876543210"},
		{"with spaces", "+91 98765 43210", "+919876543210"},
		{"with dashes", "+91-98765-43210", "+919876543210"},
		{"national india", "09876543210", "+919876543210"},
		{"us with parentheses", "+1 (212) 555-1234", "+12125551234"},
		{"surrounding spaces", "  +919876543210  ", "+919876543210"},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"letters", "not-a-phone", ""},
		{"too short", "+91123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	once := NormalizePhone("+91 98765 43210")
	if twice := NormalizePhone(once); twice != once {
		t.Errorf("NormalizePhone not idempotent: %q then %q", once, twice)
	}
}

func TestNormalizePhone_PrefersVenueRegion(t *testing.T) {
	if got := NormalizePhone("(212) 555-1234", locale.RegionsFor("America/New_York")...); got != "+12125551234" {
		t.Errorf("got %q, want +12125551234", got)
	}
	if got := NormalizePhone("020 7183 8750", "GB"); got != "+442071838750" {
		t.Errorf("got %q, want +442071838750", got)
	}
}
