package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a geographic coordinate pair.
type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Timing holds store opening hours in HH:mm format.
type Timing struct {
	Open  string `bson:"open" json:"open"`
	Close string `bson:"close" json:"close"`
}

// StoreServices lists which services a store offers.
type StoreServices struct {
	DineIn   bool `bson:"dineIn" json:"dineIn"`
	Takeaway bool `bson:"takeaway" json:"takeaway"`
	Delivery bool `bson:"delivery" json:"delivery"`
}

// Store represents a physical restaurant location.
type Store struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Address   Address            `bson:"address" json:"address"`
	Location  Location           `bson:"location" json:"location"`
	Phone     string             `bson:"phone" json:"phone"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Timing    Timing             `bson:"timing" json:"timing"`
	DaysOpen  []string           `bson:"daysOpen" json:"daysOpen"`
	IsOpen    bool               `bson:"isOpen" json:"isOpen"`
	Services  StoreServices      `bson:"services" json:"services"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
