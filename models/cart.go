package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one (email, product, size) entry in a user's cart.
// Adding the same tuple again increments Quantity instead of inserting
// a second line.
type CartLine struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Size      string             `json:"size" bson:"size"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	AddedAt   time.Time          `json:"addedAt" bson:"addedAt"`
}

// CartLineWithProduct is a cart line joined against the product catalog.
type CartLineWithProduct struct {
	CartLine `bson:",inline"`
	Product  Product `json:"productData" bson:"productData"`
}

// AddCartLineRequest is the body of POST /api/cart. The owner email comes
// from the authenticated identity, never from the client.
type AddCartLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity"`
}
