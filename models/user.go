package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered customer or store admin.
// The password field holds a bcrypt hash and is never serialized to JSON.
type User struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	PhotoURL  string             `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Role      string             `json:"role" bson:"role"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// MonthlySignups is one bucket of the admin signup chart.
type MonthlySignups struct {
	Month      string `json:"month" bson:"month"`
	Year       int    `json:"year" bson:"year"`
	TotalUsers int    `json:"totalUsers" bson:"totalUsers"`
}
