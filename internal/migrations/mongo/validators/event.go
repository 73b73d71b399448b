package validators

import "go.mongodb.org/mongo-driver/bson"

var EventBlockValidator = schema(
	[]string{"name", "ground_ids", "slot_ids", "start_date", "end_date", "state", "state_changed_at", "created_at"},
	bson.M{
		"name":             bson.M{"bsonType": "string", "minLength": 2, "maxLength": 200},
		"ground_ids":       bson.M{"bsonType": "array", "minItems": 1, "items": hexID},
		"slot_ids":         bson.M{"bsonType": "array", "minItems": 1, "items": hexID},
		"start_date":       date,
		"end_date":         date,
		"state":            activationState,
		"state_changed_at": date,
		"created_at":       date,
		"updated_at":       date,
	},
)

var ClaimLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "owner", "expires_at"},
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"owner":      bson.M{"bsonType": "string"},
			"expires_at": date,
			"created_at": date,
		},
	},
}
