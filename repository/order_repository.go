package repository

import (
	"context"
	"time"

	"thread-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository is the store access layer for order documents.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error)
	FindByEmail(ctx context.Context, email string) ([]models.Order, error)
	// MarkPaid flips paidStatus in a single conditional update and reports
	// how many documents changed. An already-paid or unknown transaction
	// modifies nothing.
	MarkPaid(ctx context.Context, transactionID string, at time.Time) (int64, error)
	DeleteByTransactionID(ctx context.Context, transactionID string) error
}

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{collection: db.Collection("orders")}
}

// EnsureOrderIndexes creates the unique transaction id index used by the
// payment callbacks.
func EnsureOrderIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "transactionId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	_, err := r.collection.InsertOne(ctx, order)
	return err
}

func (r *mongoOrderRepository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *mongoOrderRepository) FindByEmail(ctx context.Context, email string) ([]models.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"email": email}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *mongoOrderRepository) MarkPaid(ctx context.Context, transactionID string, at time.Time) (int64, error) {
	filter := bson.M{"transactionId": transactionID, "paidStatus": false}
	update := bson.M{"$set": bson.M{"paidStatus": true, "paidAt": at}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *mongoOrderRepository) DeleteByTransactionID(ctx context.Context, transactionID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"transactionId": transactionID})
	return err
}
