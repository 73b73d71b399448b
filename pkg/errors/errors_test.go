package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "ground not found",
			},
			expected: "NOT_FOUND: ground not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if errors.Unwrap(appErr) != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Ground"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Slot", "abc"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("slot already reserved"), CodeConflict, http.StatusConflict},
		{"invalid range", InvalidRange("end before start"), CodeInvalidRange, http.StatusBadRequest},
		{"capability disabled", CapabilityDisabled("Ground", "academy"), CodeCapabilityDisabled, http.StatusUnprocessableEntity},
		{"internal", Internal("boom", errors.New("x")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Redis"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "12345")

	if err.Details["id"] != "12345" {
		t.Errorf("expected id '12345', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Booking" {
		t.Errorf("expected resource 'Booking', got %v", err.Details["resource"])
	}
}

func TestAppError_WithDetailsMerges(t *testing.T) {
	err := CapabilityDisabled("Ground", "membership").WithDetails(map[string]any{"ground_id": "g1"})

	if err.Details["capability"] != "membership" {
		t.Errorf("expected capability detail to survive merge, got %v", err.Details["capability"])
	}
	if err.Details["ground_id"] != "g1" {
		t.Errorf("expected ground_id 'g1', got %v", err.Details["ground_id"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("taken")
	wrapped := fmt.Errorf("transaction failed: %w", appErr)
	regularErr := errors.New("regular error")

	if got := AsAppError(wrapped); got != appErr {
		t.Errorf("AsAppError() should unwrap to the original AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestHasCode(t *testing.T) {
	if !HasCode(fmt.Errorf("ctx: %w", Conflict("x")), CodeConflict) {
		t.Errorf("HasCode() should see through wrapping")
	}
	if HasCode(NotFound("Ground"), CodeConflict) {
		t.Errorf("HasCode() should not match a different code")
	}
	if HasCode(errors.New("plain"), CodeConflict) {
		t.Errorf("HasCode() should be false for non-AppError")
	}
	if !IsAppError(InvalidRange("x")) {
		t.Errorf("IsAppError() should be true for AppError")
	}
}
