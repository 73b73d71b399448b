package validators

import "go.mongodb.org/mongo-driver/bson"

var GroundValidator = schema(
	[]string{"name", "venue_id", "active", "created_at"},
	bson.M{
		"name":                  bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
		"venue_id":              hexID,
		"supports_ad_hoc_slots": bson.M{"bsonType": "bool"},
		"supports_academy":      bson.M{"bsonType": "bool"},
		"supports_membership":   bson.M{"bsonType": "bool"},
		"active":                bson.M{"bsonType": "bool"},
		"created_at":            date,
	},
)

var SlotValidator = schema(
	[]string{"ground_id", "label", "start_time", "end_time", "price", "active", "created_at"},
	bson.M{
		"ground_id":  hexID,
		"label":      bson.M{"bsonType": "string", "minLength": 1, "maxLength": 50},
		"start_time": bson.M{"bsonType": "string", "pattern": "^[0-2][0-9]:[0-5][0-9]$"},
		"end_time":   bson.M{"bsonType": "string", "pattern": "^[0-2][0-9]:[0-5][0-9]$"},
		"price": bson.M{
			"bsonType": "array",
			"minItems": 7,
			"maxItems": 7,
			"items":    money,
		},
		"active":     bson.M{"bsonType": "bool"},
		"created_at": date,
		"updated_at": date,
	},
)

var CustomerValidator = schema(
	[]string{"name", "active"},
	bson.M{
		"name":   bson.M{"bsonType": "string"},
		"phone":  bson.M{"bsonType": "string"},
		"active": bson.M{"bsonType": "bool"},
	},
)

var SportValidator = schema(
	[]string{"name", "active"},
	bson.M{
		"name":   bson.M{"bsonType": "string"},
		"active": bson.M{"bsonType": "bool"},
	},
)
