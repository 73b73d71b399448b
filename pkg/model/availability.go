package model

// SlotAvailability is one catalog entry of a ground as seen on one date.
type SlotAvailability struct {
	SlotID     string    `json:"slot_id"`
	Label      string    `json:"label"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Price      WeekPrice `json:"price"`
	PriceToday int64     `json:"price_today"`
	Available  bool      `json:"available"`
}
