package model

import "time"

type ReservationCustomer struct {
	Name  string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone string `json:"phone" bson:"phone" validate:"required,e164"`
	Email string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
}

type Payment struct {
	Method     string `json:"method" bson:"method" validate:"required,oneof=cash card upi bank_transfer"`
	Reference  string `json:"reference,omitempty" bson:"reference,omitempty" validate:"omitempty,max=100"`
	PaidAmount int64  `json:"paid_amount" bson:"paid_amount" validate:"min=0"`
}

type Reservation struct {
	ID          string              `json:"id,omitempty" bson:"_id,omitempty"`
	GroundID    string              `json:"ground_id" bson:"ground_id"`
	Customer    ReservationCustomer `json:"customer" bson:"customer"`
	TotalAmount int64               `json:"total_amount" bson:"total_amount"`
	Payment     Payment             `json:"payment" bson:"payment"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}

type ReservationSlot struct {
	ID            string        `json:"id,omitempty" bson:"_id,omitempty"`
	ReservationID string        `json:"reservation_id" bson:"reservation_id"`
	GroundID      string        `json:"ground_id" bson:"ground_id"`
	Date          time.Time     `json:"date" bson:"date"`
	SlotIDs       []string      `json:"slot_ids" bson:"slot_ids"`
	BookingStatus BookingStatus `json:"booking_status" bson:"booking_status"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// ReservationDetail is a header together with its children.
type ReservationDetail struct {
	Reservation
	Slots []*ReservationSlot `json:"slots"`
}

type ReservationEntry struct {
	Date    string   `json:"date" validate:"required,calendar_date"`
	SlotIDs []string `json:"slot_ids" validate:"required,min=1,max=16,unique,dive,required,mongodb"`
}

type ReservationRequest struct {
	GroundID    string              `json:"ground_id" validate:"required,mongodb"`
	Entries     []ReservationEntry  `json:"entries" validate:"required,min=1,max=100,dive"`
	Customer    ReservationCustomer `json:"customer" validate:"required"`
	TotalAmount int64               `json:"total_amount" validate:"min=0"`
	Payment     Payment             `json:"payment" validate:"required"`
}

type ReservationSlotUpdate struct {
	Date    *string  `json:"date,omitempty" validate:"omitempty,calendar_date"`
	SlotIDs []string `json:"slot_ids,omitempty" validate:"omitempty,min=1,max=16,unique,dive,required,mongodb"`
}
