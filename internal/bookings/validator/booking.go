package validator

import (
	"turfslot/pkg/logger"
	"turfslot/pkg/model"
	"turfslot/pkg/validation"
)

type BookingValidator struct {
	v *validation.Validator
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{v: validation.New(log)}
}

func (b *BookingValidator) Validate(req *model.BookingRequest) error {
	return b.v.Struct(req)
}

func (b *BookingValidator) ValidateUpdate(u *model.BookingUpdate) error {
	if err := b.v.Struct(u); err != nil {
		return err
	}
	if u.Date == nil && u.SlotIDs == nil && u.Status == "" {
		return validation.Fail("BookingUpdate", "at least one field must be provided")
	}
	return nil
}
