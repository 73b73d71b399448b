package validator

import (
	"turfslot/pkg/logger"
	"turfslot/pkg/model"
	"turfslot/pkg/validation"
)

type ReservationValidator struct {
	v *validation.Validator
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	return &ReservationValidator{v: validation.New(log)}
}

func (r *ReservationValidator) Validate(req *model.ReservationRequest) error {
	if err := r.v.Struct(req); err != nil {
		return err
	}
	if req.Payment.PaidAmount > req.TotalAmount {
		return validation.Fail("ReservationRequest.Payment.PaidAmount", "PaidAmount cannot exceed TotalAmount")
	}
	return nil
}

func (r *ReservationValidator) ValidateEntry(entry *model.ReservationEntry) error {
	return r.v.Struct(entry)
}

func (r *ReservationValidator) ValidateSlotUpdate(u *model.ReservationSlotUpdate) error {
	if err := r.v.Struct(u); err != nil {
		return err
	}
	if u.Date == nil && u.SlotIDs == nil {
		return validation.Fail("ReservationSlotUpdate", "at least one field must be provided")
	}
	return nil
}

func (r *ReservationValidator) ValidateIDs(ids []string) error {
	req := struct {
		IDs []string `validate:"required,min=1,max=100,dive,required,mongodb"`
	}{IDs: ids}
	return r.v.Struct(req)
}
