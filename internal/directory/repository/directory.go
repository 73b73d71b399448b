package repository

import (
	"context"
	"errors"
	"fmt"

	directoryerrors "turfslot/internal/directory/errors"
	"turfslot/pkg/config"
	mongotx "turfslot/pkg/db/mongo"
	"turfslot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CustomersCollection = "Customers"
	SportsCollection    = "Sports"
)

// DirectoryRepository reads upstream records owned by other services.
type DirectoryRepository interface {
	FindCustomer(ctx context.Context, id string) (*model.Customer, error)
	FindSport(ctx context.Context, id string) (*model.Sport, error)
}

type mongoDirectoryRepository struct {
	cfg       *config.Config
	customers *mongo.Collection
	sports    *mongo.Collection
}

func NewMongoDirectoryRepository(cfg *config.Config) DirectoryRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDirectoryRepository{
		cfg:       cfg,
		customers: db.Collection(CustomersCollection),
		sports:    db.Collection(SportsCollection),
	}
}

func (r *mongoDirectoryRepository) FindCustomer(ctx context.Context, id string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.findOne(ctx, r.customers, id, &customer); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, directoryerrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

func (r *mongoDirectoryRepository) FindSport(ctx context.Context, id string) (*model.Sport, error) {
	var sport model.Sport
	if err := r.findOne(ctx, r.sports, id, &sport); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, directoryerrors.ErrSportNotFound
		}
		return nil, fmt.Errorf("failed to find sport: %w", err)
	}
	return &sport, nil
}

func (r *mongoDirectoryRepository) findOne(ctx context.Context, coll *mongo.Collection, id string, out any) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := mongotx.ObjectID(id)
	if err != nil {
		return fmt.Errorf("%w: %s", directoryerrors.ErrInvalidID, id)
	}
	return coll.FindOne(ctx, bson.M{"_id": oid}).Decode(out)
}
