// Package mongostore implements the repository interfaces on MongoDB, the
// document store the directory originally ran on.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "servicedirectory/internal/errors"
)

const (
	servicesCollection = "servicedetails"
	usersCollection    = "userdetails"
)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client.Database(database), client.Disconnect, nil
}

// EnsureIndexes creates the unique user name index and the search index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = db.Collection(servicesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "pincode", Value: 1}, {Key: "serviceType", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create service index: %w", err)
	}
	return nil
}

// Reset drops the directory collections.
func Reset(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{servicesCollection, usersCollection} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperrors.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errNameTaken
	default:
		return err
	}
}

var errNameTaken = &apperrors.ConflictError{Message: "username already exists"}

// creationOrder sorts documents the way they were inserted.
func creationOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
}
