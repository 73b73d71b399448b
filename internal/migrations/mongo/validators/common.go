package validators

import "go.mongodb.org/mongo-driver/bson"

var (
	objectID = bson.M{"bsonType": "objectId"}
	hexID    = bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24}
	hexIDs   = bson.M{"bsonType": "array", "items": hexID}
	date     = bson.M{"bsonType": "date"}
	money    = bson.M{"bsonType": "long", "minimum": 0}

	activationState = bson.M{"bsonType": "string", "enum": []string{"active", "inactive"}}
	claimStatus     = bson.M{"bsonType": "string", "enum": []string{"booked", "completed", "cancelled"}}
)

func schema(required []string, properties bson.M) bson.M {
	properties["_id"] = objectID
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":             "object",
			"required":             required,
			"additionalProperties": true,
			"properties":           properties,
		},
	}
}
