package validation

import (
	"errors"
	"fmt"
	"strings"

	"turfslot/pkg/calendar"
	apperrors "turfslot/pkg/errors"
	"turfslot/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Fail builds a single-field ValidationErrors.
func Fail(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

// AsAppError wraps a validator failure as a VALIDATION_ERROR with the
// per-field messages in details.
func AsAppError(err error, message string) error {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, map[string]any{"errors": []ValidationError(verrs)})
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

// Validator carries a go-playground validator with the shared custom tags.
type Validator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func New(log *logger.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}
	if err := v.RegisterValidation("weekday", validateWeekday); err != nil {
		log.Fatal("Failed to register 'weekday' validator", "error", err)
	}

	return &Validator{validate: v, log: log}
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := calendar.ParseDate(fl.Field().String())
	return err == nil
}

func validateWeekday(fl validator.FieldLevel) bool {
	_, err := calendar.ParseWeekday(fl.Field().String())
	return err == nil
}

func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}
	return nil
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +919876543210)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "unique":
			message = fmt.Sprintf("%s must not contain duplicates", err.Field())
		case "calendar_date":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "weekday":
			message = fmt.Sprintf("%s must be a weekday name (mon..sun)", err.Field())
		}

		out = append(out, ValidationError{Field: err.Namespace(), Message: message})
	}

	return out
}
