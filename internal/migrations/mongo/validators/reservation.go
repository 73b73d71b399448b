package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = schema(
	[]string{"ground_id", "customer", "total_amount", "payment", "created_at"},
	bson.M{
		"ground_id": hexID,
		"customer": bson.M{
			"bsonType": "object",
			"required": []string{"name", "phone"},
			"properties": bson.M{
				"name":  bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
				"phone": bson.M{"bsonType": "string", "pattern": "^\\+[1-9][0-9]{6,14}$"},
				"email": bson.M{"bsonType": "string"},
			},
		},
		"total_amount": money,
		"payment": bson.M{
			"bsonType": "object",
			"required": []string{"method", "paid_amount"},
			"properties": bson.M{
				"method":      bson.M{"bsonType": "string", "enum": []string{"cash", "card", "upi", "bank_transfer"}},
				"reference":   bson.M{"bsonType": "string"},
				"paid_amount": money,
			},
		},
		"created_at": date,
		"updated_at": date,
	},
)

var ReservationSlotValidator = schema(
	[]string{"reservation_id", "ground_id", "date", "slot_ids", "booking_status", "created_at"},
	bson.M{
		"reservation_id": hexID,
		"ground_id":      hexID,
		"date":           date,
		"slot_ids":       hexIDs,
		"booking_status": claimStatus,
		"created_at":     date,
		"updated_at":     date,
	},
)
