package validator

import (
	"turfslot/pkg/logger"
	"turfslot/pkg/model"
	"turfslot/pkg/validation"
)

type EventValidator struct {
	v *validation.Validator
}

func NewEventValidator(log *logger.Logger) *EventValidator {
	return &EventValidator{v: validation.New(log)}
}

func (e *EventValidator) Validate(req *model.EventRequest) error {
	return e.v.Struct(req)
}
