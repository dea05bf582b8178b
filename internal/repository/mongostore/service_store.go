package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"servicedirectory/internal/model"
	"servicedirectory/internal/repository"
)

type serviceStore struct {
	coll *mongo.Collection
}

// NewServiceRepository returns a ServiceRepository backed by db.
func NewServiceRepository(db *mongo.Database) repository.ServiceRepository {
	return &serviceStore{coll: db.Collection(servicesCollection)}
}

func (s *serviceStore) List(ctx context.Context) ([]model.ServiceRecord, error) {
	return s.find(ctx, bson.M{})
}

func (s *serviceStore) FindByFilter(ctx context.Context, pincode string, category model.Category) ([]model.ServiceRecord, error) {
	return s.find(ctx, searchFilter(pincode, category))
}

func (s *serviceStore) Create(ctx context.Context, record *model.ServiceRecord) error {
	record.Normalize()
	if err := record.Validate(); err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	_, err := s.coll.InsertOne(ctx, record)
	return err
}

func (s *serviceStore) find(ctx context.Context, filter bson.M) ([]model.ServiceRecord, error) {
	cur, err := s.coll.Find(ctx, filter, creationOrder())
	if err != nil {
		return nil, err
	}
	records := []model.ServiceRecord{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func searchFilter(pincode string, category model.Category) bson.M {
	return bson.M{
		"pincode":     pincode,
		"serviceType": string(category),
	}
}
