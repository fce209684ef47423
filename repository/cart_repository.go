package repository

import (
	"context"
	"time"

	"thread-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartRepository is the store access layer for cart line documents.
type CartRepository interface {
	// AddOrIncrement upserts the (email, productId, size) line in a single
	// atomic operation. Concurrent adds for the same tuple both land on one
	// document instead of racing read-then-insert.
	AddOrIncrement(ctx context.Context, email string, productID primitive.ObjectID, size string, quantity int) error
	// FindWithProducts joins each cart line to its catalog document in one
	// aggregation. Lines whose product was deleted come back with a zero
	// product so callers see them instead of a silently shorter list.
	FindWithProducts(ctx context.Context, email string) ([]models.CartLineWithProduct, error)
	Delete(ctx context.Context, id primitive.ObjectID, email string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{collection: db.Collection("cart")}
}

// EnsureCartIndexes creates the unique (email, productId, size) index backing
// the upsert in AddOrIncrement.
func EnsureCartIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("cart").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "email", Value: 1},
			{Key: "productId", Value: 1},
			{Key: "size", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *mongoCartRepository) AddOrIncrement(ctx context.Context, email string, productID primitive.ObjectID, size string, quantity int) error {
	filter := bson.M{"email": email, "productId": productID, "size": size}
	update := bson.M{
		"$inc":         bson.M{"quantity": quantity},
		"$setOnInsert": bson.M{"addedAt": time.Now().UTC()},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoCartRepository) FindWithProducts(ctx context.Context, email string) ([]models.CartLineWithProduct, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"email": email}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "productId",
			"foreignField": "_id",
			"as":           "productData",
		}}},
		// Keep unjoined lines: a deleted product surfaces as a zero
		// productData instead of vanishing from the result.
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$productData",
			"preserveNullAndEmptyArrays": true,
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lines []models.CartLineWithProduct
	if err = cursor.All(ctx, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *mongoCartRepository) Delete(ctx context.Context, id primitive.ObjectID, email string) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "email": email})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *mongoCartRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
