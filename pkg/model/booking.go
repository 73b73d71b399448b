package model

import "time"

type BookingStatus string

const (
	StatusBooked    BookingStatus = "booked"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Booking struct {
	ID         string        `json:"id,omitempty" bson:"_id,omitempty"`
	GroundID   string        `json:"ground_id" bson:"ground_id"`
	CustomerID string        `json:"customer_id" bson:"customer_id"`
	Date       time.Time     `json:"date" bson:"date"`
	SlotIDs    []string      `json:"slot_ids" bson:"slot_ids"`
	Amount     int64         `json:"amount" bson:"amount"`
	Status     BookingStatus `json:"status" bson:"status"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" bson:"updated_at"`
}

type BookingRequest struct {
	GroundID   string   `json:"ground_id" validate:"required,mongodb"`
	CustomerID string   `json:"customer_id" validate:"required,mongodb"`
	Date       string   `json:"date" validate:"required,calendar_date"`
	SlotIDs    []string `json:"slot_ids" validate:"required,min=1,max=16,unique,dive,required,mongodb"`
}

type BookingUpdate struct {
	Date    *string       `json:"date,omitempty" validate:"omitempty,calendar_date"`
	SlotIDs []string      `json:"slot_ids,omitempty" validate:"omitempty,min=1,max=16,unique,dive,required,mongodb"`
	Status  BookingStatus `json:"status,omitempty" validate:"omitempty,oneof=booked cancelled"`
}
