package validator

import (
	"turfslot/pkg/logger"
	"turfslot/pkg/model"
	"turfslot/pkg/validation"
)

type CatalogValidator struct {
	v *validation.Validator
}

func NewCatalogValidator(log *logger.Logger) *CatalogValidator {
	return &CatalogValidator{v: validation.New(log)}
}

func (c *CatalogValidator) ValidateGround(g *model.Ground) error {
	return c.v.Struct(g)
}

func (c *CatalogValidator) ValidateGroundUpdate(u *model.GroundUpdate) error {
	if err := c.v.Struct(u); err != nil {
		return err
	}
	if u.Name == nil && u.SupportsAdHocSlots == nil && u.SupportsAcademy == nil &&
		u.SupportsMembership == nil && u.Active == nil {
		return validation.Fail("GroundUpdate", "at least one field must be provided")
	}
	return nil
}

func (c *CatalogValidator) ValidateSlotUpdate(u *model.SlotUpdate) error {
	if err := c.v.Struct(u); err != nil {
		return err
	}
	if u.Label == nil && u.Price == nil && u.Active == nil {
		return validation.Fail("SlotUpdate", "at least one field must be provided")
	}
	return nil
}
