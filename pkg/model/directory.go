package model

type Customer struct {
	ID     string `json:"id,omitempty" bson:"_id,omitempty"`
	Name   string `json:"name" bson:"name"`
	Phone  string `json:"phone" bson:"phone"`
	Active bool   `json:"active" bson:"active"`
}

type Sport struct {
	ID     string `json:"id,omitempty" bson:"_id,omitempty"`
	Name   string `json:"name" bson:"name"`
	Active bool   `json:"active" bson:"active"`
}
