package model

import "time"

type Ground struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name               string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	VenueID            string    `json:"venue_id" bson:"venue_id" validate:"required,mongodb"`
	SupportsAdHocSlots bool      `json:"supports_ad_hoc_slots" bson:"supports_ad_hoc_slots"`
	SupportsAcademy    bool      `json:"supports_academy" bson:"supports_academy"`
	SupportsMembership bool      `json:"supports_membership" bson:"supports_membership"`
	Active             bool      `json:"active" bson:"active"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
}

// WeekPrice is indexed by time.Weekday (Sunday=0).
type WeekPrice [7]int64

type Slot struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	GroundID  string    `json:"ground_id" bson:"ground_id"`
	Label     string    `json:"label" bson:"label"`
	StartTime string    `json:"start_time" bson:"start_time"`
	EndTime   string    `json:"end_time" bson:"end_time"`
	Price     WeekPrice `json:"price" bson:"price"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (s *Slot) PriceOn(date time.Time) int64 {
	return s.Price[date.Weekday()]
}

type SlotUpdate struct {
	Label  *string    `json:"label,omitempty" validate:"omitempty,min=1,max=50"`
	Price  *WeekPrice `json:"price,omitempty" validate:"omitempty,dive,min=0"`
	Active *bool      `json:"active,omitempty"`
}

type Capability string

const (
	CapabilityAdHocSlots Capability = "supports_ad_hoc_slots"
	CapabilityAcademy    Capability = "supports_academy"
	CapabilityMembership Capability = "supports_membership"
)

func (g *Ground) Supports(c Capability) bool {
	switch c {
	case CapabilityAdHocSlots:
		return g.SupportsAdHocSlots
	case CapabilityAcademy:
		return g.SupportsAcademy
	case CapabilityMembership:
		return g.SupportsMembership
	}
	return true
}

type GroundUpdate struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	SupportsAdHocSlots *bool   `json:"supports_ad_hoc_slots,omitempty"`
	SupportsAcademy    *bool   `json:"supports_academy,omitempty"`
	SupportsMembership *bool   `json:"supports_membership,omitempty"`
	Active             *bool   `json:"active,omitempty"`
}

// GroundCatalog is a ground with its slot catalog.
type GroundCatalog struct {
	Ground *Ground `json:"ground"`
	Slots  []*Slot `json:"slots"`
}
