package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product categories available on the menu.
const (
	CategoryBurgers   = "burgers"
	CategoryFries     = "fries"
	CategoryBeverages = "beverages"
	CategoryDesserts  = "desserts"
)

// Nutrition holds per-product nutrition facts.
type Nutrition struct {
	Calories float64  `bson:"calories" json:"calories"`
	Protein  float64  `bson:"protein" json:"protein"`
	Carbs    float64  `bson:"carbs" json:"carbs"`
	Fat      float64  `bson:"fat" json:"fat"`
	Fiber    *float64 `bson:"fiber,omitempty" json:"fiber,omitempty"`
}

// Product represents a food product available for order
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Category     string             `bson:"category" json:"category"`
	Price        float64            `bson:"price" json:"price"`
	Image        string             `bson:"image" json:"image"`
	Nutrition    Nutrition          `bson:"nutrition" json:"nutrition"`
	Customizable bool               `bson:"customizable" json:"customizable"`
	Ingredients  []string           `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	Available    bool               `bson:"available" json:"available"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
