package store

import (
	"ConnectSpace/models"
	"ConnectSpace/search"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoPropertyStore struct {
	collection *mongo.Collection
}

func NewMongoPropertyStore(collection *mongo.Collection) *MongoPropertyStore {
	return &MongoPropertyStore{collection: collection}
}

func (s *MongoPropertyStore) Create(ctx context.Context, p *models.Property) error {
	if _, err := s.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert property: %w", translate(err))
	}
	return nil
}

func (s *MongoPropertyStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var p models.Property
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// partialUpdate builds a $set/$unset document for the given paths from the
// encoded form of p, so fields outside the payload are never overwritten.
func partialUpdate(p *models.Property, paths []string) (bson.M, error) {
	raw, err := bson.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode property: %w", err)
	}

	set, unset := bson.M{}, bson.M{}
	for _, path := range paths {
		val, err := bson.Raw(raw).LookupErr(splitPath(path)...)
		if err != nil {
			unset[path] = ""
			continue
		}
		set[path] = val
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update, nil
}

func (s *MongoPropertyStore) Update(ctx context.Context, p *models.Property, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	update, err := partialUpdate(p, paths)
	if err != nil {
		return err
	}
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return fmt.Errorf("update property: %w", translate(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoPropertyStore) UpdateVerification(ctx context.Context, p *models.Property, from models.VerificationStatus) error {
	update, err := partialUpdate(p, models.VerificationPaths)
	if err != nil {
		return err
	}
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": p.ID, "verificationStatus": from}, update)
	if err != nil {
		return fmt.Errorf("update verification: %w", translate(err))
	}
	if res.MatchedCount > 0 {
		return nil
	}

	exists, err := s.collection.CountDocuments(ctx, bson.M{"_id": p.ID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	return fmt.Errorf("%w: verification is no longer %s", ErrConflict, from)
}

func (s *MongoPropertyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoPropertyStore) Search(ctx context.Context, q search.Query) ([]models.Property, int64, error) {
	filter := SearchFilter(q)

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	opts := options.Find().
		SetSort(SearchSort(q)).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit)).
		SetProjection(listProjection)
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find properties: %w", err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, 0, fmt.Errorf("decode properties: %w", err)
	}
	return properties, total, nil
}

func (s *MongoPropertyStore) Nearby(ctx context.Context, q search.GeoQuery) ([]models.Property, error) {
	opts := options.Find().SetLimit(int64(q.Limit)).SetProjection(listProjection)
	cursor, err := s.collection.Find(ctx, NearbyFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("find nearby properties: %w", err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("decode nearby properties: %w", err)
	}
	return properties, nil
}

func (s *MongoPropertyStore) IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var p models.Property
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stats.views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *MongoPropertyStore) IncrementInquiries(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stats.inquiries": 1}})
	if err != nil {
		return fmt.Errorf("increment inquiries: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
