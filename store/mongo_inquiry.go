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

type MongoInquiryStore struct {
	collection *mongo.Collection
}

func NewMongoInquiryStore(collection *mongo.Collection) *MongoInquiryStore {
	return &MongoInquiryStore{collection: collection}
}

func (s *MongoInquiryStore) Create(ctx context.Context, i *models.Inquiry) error {
	if _, err := s.collection.InsertOne(ctx, i); err != nil {
		return fmt.Errorf("insert inquiry: %w", translate(err))
	}
	return nil
}

func (s *MongoInquiryStore) ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Inquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"propertyId": propertyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	inquiries := []models.Inquiry{}
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, fmt.Errorf("decode inquiries: %w", err)
	}
	return inquiries, nil
}
