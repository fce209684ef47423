package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is embedded in a product document.
type Review struct {
	Reviewer string  `json:"reviewer" bson:"reviewer"`
	Rating   float64 `json:"rating" bson:"rating"`
	Comment  string  `json:"comment" bson:"comment"`
}

type Product struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64            `json:"price" bson:"price"`
	Category    string             `json:"category" bson:"category"`
	Sizes       []string           `json:"sizes,omitempty" bson:"sizes,omitempty"`
	Images      []string           `json:"images,omitempty" bson:"images,omitempty"`
	Reviews     []Review           `json:"reviews" bson:"reviews"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
