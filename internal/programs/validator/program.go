package validator

import (
	"turfslot/internal/claims"
	"turfslot/pkg/logger"
	"turfslot/pkg/model"
	"turfslot/pkg/validation"
)

type ProgramValidator struct {
	v *validation.Validator
}

func NewProgramValidator(log *logger.Logger) *ProgramValidator {
	return &ProgramValidator{v: validation.New(log)}
}

func (p *ProgramValidator) Validate(kind model.ProgramKind, req *model.ProgramRequest) error {
	if err := p.v.Struct(req); err != nil {
		return err
	}
	return validateShape(kind, "ProgramRequest", req.MorningSlotIDs, req.EveningSlotIDs, req.ActiveDays)
}

func (p *ProgramValidator) ValidateUpdate(u *model.ProgramUpdate) error {
	if err := p.v.Struct(u); err != nil {
		return err
	}
	if u.Name == nil && u.MorningSlotIDs == nil && u.EveningSlotIDs == nil && u.ActiveDays == nil && u.DueDate == nil {
		return validation.Fail("ProgramUpdate", "at least one field must be provided")
	}
	return nil
}

// ValidateMerged checks the program that an update would produce.
func (p *ProgramValidator) ValidateMerged(program *model.Program) error {
	return validateShape(program.Kind, "Program", program.MorningSlotIDs, program.EveningSlotIDs, program.ActiveDays)
}

func validateShape(kind model.ProgramKind, prefix string, morning, evening, days []string) error {
	var errs validation.ValidationErrors

	if len(morning)+len(evening) == 0 {
		errs = append(errs, validation.ValidationError{Field: prefix + ".MorningSlotIDs", Message: "at least one morning or evening slot is required"})
	}
	if shared := claims.Intersect(morning, evening); len(shared) > 0 {
		errs = append(errs, validation.ValidationError{Field: prefix + ".EveningSlotIDs", Message: "a slot cannot be both morning and evening"})
	}

	switch kind {
	case model.ProgramAcademy:
		if len(days) == 0 {
			errs = append(errs, validation.ValidationError{Field: prefix + ".ActiveDays", Message: "ActiveDays is required for academies"})
		}
	case model.ProgramMembership:
		if len(days) > 0 {
			errs = append(errs, validation.ValidationError{Field: prefix + ".ActiveDays", Message: "memberships hold their slots every day and take no ActiveDays"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
