package mongo

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidObjectID = fmt.Errorf("invalid object id")

func ObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ErrInvalidObjectID, id)
	}
	return oid, nil
}

func ObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := ObjectID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

// HexID renders an InsertedID as the string id used by the models.
func HexID(v any) string {
	if oid, ok := v.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
