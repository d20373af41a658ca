package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections names the MongoDB collections backing each store.
type Collections struct {
	Properties *mongo.Collection
	Users      *mongo.Collection
	Favorites  *mongo.Collection
	Inquiries  *mongo.Collection
}

// EnsureIndexes creates the indexes the queries rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, c Collections) error {
	propertyIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "address.area", Value: "text"},
				{Key: "address.city", Value: "text"},
			},
			Options: options.Index().SetName("property_text"),
		},
		{Keys: bson.D{{Key: "address.city", Value: 1}, {Key: "propertyType", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "landlord", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := c.Properties.Indexes().CreateMany(ctx, propertyIndexes); err != nil {
		return fmt.Errorf("property indexes: %w", err)
	}

	if _, err := c.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}

	if _, err := c.Favorites.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "propertyId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("favorite indexes: %w", err)
	}

	if _, err := c.Inquiries.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "propertyId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("inquiry indexes: %w", err)
	}

	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
