package store

import (
	"ConnectSpace/models"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoFavoriteStore struct {
	collection *mongo.Collection
}

func NewMongoFavoriteStore(collection *mongo.Collection) *MongoFavoriteStore {
	return &MongoFavoriteStore{collection: collection}
}

func (s *MongoFavoriteStore) Add(ctx context.Context, f *models.Favorite) error {
	if _, err := s.collection.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("insert favorite: %w", translate(err))
	}
	return nil
}

func (s *MongoFavoriteStore) List(ctx context.Context, userID primitive.ObjectID) ([]models.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find favorites: %w", err)
	}
	defer cursor.Close(ctx)

	favorites := []models.Favorite{}
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	return favorites, nil
}

func (s *MongoFavoriteStore) Remove(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"userId": userID, "propertyId": propertyID})
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
