package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "servicedirectory/internal/errors"
	"servicedirectory/internal/model"
	"servicedirectory/internal/repository"
)

type userStore struct {
	coll *mongo.Collection
}

// NewUserRepository returns a UserRepository backed by db. Name uniqueness
// relies on the index created by EnsureIndexes.
func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &userStore{coll: db.Collection(usersCollection)}
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	var missing []string
	if user.Name == "" {
		missing = append(missing, "name")
	}
	if user.PasswordHash == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(missing...)
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		return translate(err)
	}
	return nil
}

func (s *userStore) FindByName(ctx context.Context, name string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"name": name})
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *userStore) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if err := s.coll.FindOne(ctx, filter, opts).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
