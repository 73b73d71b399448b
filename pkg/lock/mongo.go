package lock

import (
	"context"
	"time"

	"turfslot/pkg/logger"
	"turfslot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const ClaimLocksCollection = "ClaimLocks"

type mongoBackend struct {
	collection *mongo.Collection
}

// NewMongoLocker keeps one document per held key in ClaimLocks. The unique
// _id makes the insert the arbitration point; expired leases are taken
// over in place.
func NewMongoLocker(db *mongo.Database, ttl, wait time.Duration, log *logger.Logger) Locker {
	return &leaseLocker{
		backend: &mongoBackend{collection: db.Collection(ClaimLocksCollection)},
		ttl:     ttl,
		wait:    wait,
		log:     log,
	}
}

func (b *mongoBackend) tryAcquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	_, err := b.collection.InsertOne(ctx, model.ClaimLock{
		ID:        key,
		Owner:     owner,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
	if err == nil {
		return true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return false, err
	}

	res, err := b.collection.UpdateOne(ctx,
		bson.M{"_id": key, "expires_at": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"owner": owner, "expires_at": now.Add(ttl), "created_at": now}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (b *mongoBackend) release(ctx context.Context, key, owner string) error {
	_, err := b.collection.DeleteOne(ctx, bson.M{"_id": key, "owner": owner})
	return err
}

func (b *mongoBackend) renew(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	res, err := b.collection.UpdateOne(ctx,
		bson.M{"_id": key, "owner": owner},
		bson.M{"$set": bson.M{"expires_at": time.Now().UTC().Add(ttl)}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
