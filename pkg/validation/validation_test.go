package validation

import (
	"errors"
	"testing"

	apperrors "turfslot/pkg/errors"
	"turfslot/pkg/logger"
)

type sample struct {
	Date string   `validate:"required,calendar_date"`
	Days []string `validate:"omitempty,unique,dive,weekday"`
	ID   string   `validate:"omitempty,mongodb"`
}

func TestValidator_Struct(t *testing.T) {
	v := New(logger.Discard())

	tests := []struct {
		name      string
		in        sample
		wantField string
	}{
		{"valid", sample{Date: "2024-06-03", Days: []string{"mon", "Friday"}, ID: "65a1b2c3d4e5f60718293a4b"}, ""},
		{"missing date", sample{}, "sample.Date"},
		{"bad date", sample{Date: "03/06/2024"}, "sample.Date"},
		{"bad weekday", sample{Date: "2024-06-03", Days: []string{"mon", "someday"}}, "sample.Days[1]"},
		{"duplicate weekday", sample{Date: "2024-06-03", Days: []string{"mon", "mon"}}, "sample.Days"},
		{"bad id", sample{Date: "2024-06-03", ID: "123"}, "sample.ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if verrs[0].Field != tt.wantField {
				t.Errorf("field = %s, want %s", verrs[0].Field, tt.wantField)
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	err := AsAppError(Fail("EndDate", "end_date must not precede start_date"), "Invalid event")
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation code, got %v", err)
	}
	details := apperrors.AsAppError(err).Details
	if _, ok := details["errors"]; !ok {
		t.Errorf("expected per-field errors in details, got %v", details)
	}
}
