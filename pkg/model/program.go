package model

import "time"

type ProgramKind string

const (
	ProgramAcademy    ProgramKind = "academy"
	ProgramMembership ProgramKind = "membership"
)

func (k ProgramKind) Valid() bool {
	return k == ProgramAcademy || k == ProgramMembership
}

// Program is a standing weekly claim. Academies only hold their slots on
// ActiveDays; memberships hold them every day.
type Program struct {
	ID             string      `json:"id,omitempty" bson:"_id,omitempty"`
	Kind           ProgramKind `json:"kind" bson:"kind"`
	GroundID       string      `json:"ground_id" bson:"ground_id"`
	SportID        string      `json:"sport_id,omitempty" bson:"sport_id,omitempty"`
	Name           string      `json:"name" bson:"name"`
	MorningSlotIDs []string    `json:"morning_slot_ids" bson:"morning_slot_ids"`
	EveningSlotIDs []string    `json:"evening_slot_ids" bson:"evening_slot_ids"`
	ActiveDays     []string    `json:"active_days,omitempty" bson:"active_days,omitempty"`
	DueDate        *time.Time  `json:"due_date,omitempty" bson:"due_date,omitempty"`
	Activation     `bson:",inline"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

func (p *Program) SlotIDs() []string {
	out := make([]string, 0, len(p.MorningSlotIDs)+len(p.EveningSlotIDs))
	out = append(out, p.MorningSlotIDs...)
	return append(out, p.EveningSlotIDs...)
}

type ProgramRequest struct {
	GroundID       string   `json:"ground_id" validate:"required,mongodb"`
	SportID        string   `json:"sport_id,omitempty" validate:"omitempty,mongodb"`
	Name           string   `json:"name" validate:"required,min=2,max=100"`
	MorningSlotIDs []string `json:"morning_slot_ids" validate:"omitempty,max=16,unique,dive,required,mongodb"`
	EveningSlotIDs []string `json:"evening_slot_ids" validate:"omitempty,max=16,unique,dive,required,mongodb"`
	ActiveDays     []string `json:"active_days,omitempty" validate:"omitempty,max=7,unique,dive,weekday"`
	DueDate        *string  `json:"due_date,omitempty" validate:"omitempty,calendar_date"`
}

type ProgramUpdate struct {
	Name           *string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	MorningSlotIDs []string `json:"morning_slot_ids,omitempty" validate:"omitempty,max=16,unique,dive,required,mongodb"`
	EveningSlotIDs []string `json:"evening_slot_ids,omitempty" validate:"omitempty,max=16,unique,dive,required,mongodb"`
	ActiveDays     []string `json:"active_days,omitempty" validate:"omitempty,max=7,unique,dive,weekday"`
	DueDate        *string  `json:"due_date,omitempty" validate:"omitempty,calendar_date"`
}
