package model

import "time"

// EventBlock holds SlotIDs on every listed ground for each day in
// [StartDate, EndDate]. StartDate is midnight, EndDate the last millisecond.
type EventBlock struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string    `json:"name" bson:"name"`
	GroundIDs  []string  `json:"ground_ids" bson:"ground_ids"`
	SlotIDs    []string  `json:"slot_ids" bson:"slot_ids"`
	StartDate  time.Time `json:"start_date" bson:"start_date"`
	EndDate    time.Time `json:"end_date" bson:"end_date"`
	Activation `bson:",inline"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

type EventRequest struct {
	Name      string   `json:"name" validate:"required,min=2,max=200"`
	GroundIDs []string `json:"ground_ids" validate:"required,min=1,max=50,unique,dive,required,mongodb"`
	SlotIDs   []string `json:"slot_ids" validate:"required,min=1,max=800,unique,dive,required,mongodb"`
	StartDate string   `json:"start_date" validate:"required,calendar_date"`
	EndDate   string   `json:"end_date" validate:"required,calendar_date"`
}
