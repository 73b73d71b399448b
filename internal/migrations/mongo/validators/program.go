package validators

import "go.mongodb.org/mongo-driver/bson"

var weekdays = bson.M{
	"bsonType": "array",
	"maxItems": 7,
	"items":    bson.M{"bsonType": "string", "enum": []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}},
}

func programValidator(kind string) bson.M {
	return schema(
		[]string{"kind", "ground_id", "name", "morning_slot_ids", "evening_slot_ids", "state", "state_changed_at", "created_at"},
		bson.M{
			"kind":             bson.M{"bsonType": "string", "enum": []string{kind}},
			"ground_id":        hexID,
			"sport_id":         hexID,
			"name":             bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"morning_slot_ids": bson.M{"bsonType": []string{"array", "null"}, "items": hexID},
			"evening_slot_ids": bson.M{"bsonType": []string{"array", "null"}, "items": hexID},
			"active_days":      weekdays,
			"due_date":         date,
			"state":            activationState,
			"state_changed_at": date,
			"created_at":       date,
			"updated_at":       date,
		},
	)
}

var (
	AcademyValidator    = programValidator("academy")
	MembershipValidator = programValidator("membership")
)
