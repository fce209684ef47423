package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a priced snapshot of a cart line taken at checkout time.
// Later product edits never change what an order says was bought.
type OrderItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Name      string             `json:"name" bson:"name"`
	Size      string             `json:"size" bson:"size"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	UnitPrice float64            `json:"unitPrice" bson:"unitPrice"`
	LineTotal float64            `json:"lineTotal" bson:"lineTotal"`
}

// Order records one checkout attempt. It is created with PaidStatus false
// and flipped exactly once by payment reconciliation.
type Order struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	TransactionID string             `json:"transactionId" bson:"transactionId"`
	Email         string             `json:"email" bson:"email"`
	Items         []OrderItem        `json:"items" bson:"items"`
	TotalPrice    float64            `json:"totalPrice" bson:"totalPrice"`
	ShippingFee   float64            `json:"shippingFee" bson:"shippingFee"`
	TotalAmount   float64            `json:"totalAmount" bson:"totalAmount"`
	Currency      string             `json:"currency" bson:"currency"`
	PaidStatus    bool               `json:"paidStatus" bson:"paidStatus"`
	PaidAt        *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// CheckoutRequest is the body of POST /api/order.
type CheckoutRequest struct {
	FirstName   string   `json:"firstName" binding:"required"`
	LastName    string   `json:"lastName" binding:"required"`
	Phone       string   `json:"phone"`
	City        string   `json:"city" binding:"required"`
	State       string   `json:"state"`
	Zip         string   `json:"zip"`
	Country     string   `json:"country" binding:"required"`
	ShippingFee *float64 `json:"shippingFee" binding:"required,gte=0"`
	Currency    string   `json:"currency" binding:"required,iso4217"`
}

// CheckoutResponse carries the gateway redirect URL back to the browser.
type CheckoutResponse struct {
	URL string `json:"url"`
}
