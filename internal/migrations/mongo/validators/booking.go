package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = schema(
	[]string{"ground_id", "customer_id", "date", "slot_ids", "amount", "status", "created_at"},
	bson.M{
		"ground_id":   hexID,
		"customer_id": hexID,
		"date":        date,
		"slot_ids": bson.M{
			"bsonType": "array",
			"minItems": 1,
			"maxItems": 16,
			"items":    hexID,
		},
		"amount":     money,
		"status":     claimStatus,
		"created_at": date,
		"updated_at": date,
	},
)
