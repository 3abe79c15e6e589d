package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/grubhouse/storefront-api/internal/config"
	"github.com/grubhouse/storefront-api/internal/models"
	"github.com/grubhouse/storefront-api/internal/repository"
	"github.com/grubhouse/storefront-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := repository.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Mongo.Database)

	if err := seed(ctx, db); err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	log.Info("seeding completed successfully")
}

func seed(ctx context.Context, db *mongo.Database) error {
	now := time.Now().UTC()

	collections := map[string][]interface{}{
		"products": toDocs(seedProducts(now)),
		"deals":    toDocs(seedDeals(now)),
		"stores":   toDocs(seedStores(now)),
	}

	for name, docs := range collections {
		coll := db.Collection(name)
		if err := coll.Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop %s: %w", name, err)
		}
		if _, err := coll.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to seed %s: %w", name, err)
		}
	}

	return nil
}

func toDocs[T any](items []T) []interface{} {
	docs := make([]interface{}, len(items))
	for i, item := range items {
		docs[i] = item
	}
	return docs
}

func seedProducts(now time.Time) []models.Product {
	product := func(name, description, category string, price float64, nutrition models.Nutrition, customizable bool, ingredients ...string) models.Product {
		return models.Product{
			Name:         name,
			Description:  description,
			Category:     category,
			Price:        price,
			Image:        "/images/" + category + ".jpg",
			Nutrition:    nutrition,
			Customizable: customizable,
			Ingredients:  ingredients,
			Available:    true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	return []models.Product{
		product("Big Mac", "Two all-beef patties, special sauce, lettuce, cheese, pickles, onions on a sesame seed bun",
			models.CategoryBurgers, 199,
			models.Nutrition{Calories: 550, Protein: 25, Carbs: 45, Fat: 30}, true,
			"Beef Patty", "Lettuce", "Cheese", "Pickles", "Onions", "Special Sauce"),
		product("McChicken", "Crispy chicken patty with lettuce and mayonnaise",
			models.CategoryBurgers, 149,
			models.Nutrition{Calories: 350, Protein: 14, Carbs: 40, Fat: 16}, true,
			"Chicken Patty", "Lettuce", "Mayonnaise"),
		product("Veggie Burger", "Plant-based patty with fresh vegetables",
			models.CategoryBurgers, 129,
			models.Nutrition{Calories: 320, Protein: 12, Carbs: 42, Fat: 12}, true,
			"Veggie Patty", "Lettuce", "Tomato", "Onions", "Mayonnaise"),
		product("French Fries", "Golden crispy fries with a pinch of salt",
			models.CategoryFries, 79,
			models.Nutrition{Calories: 230, Protein: 3, Carbs: 29, Fat: 11}, false),
		product("Chicken Nuggets (6 pc)", "Tender chicken nuggets, crispy outside",
			models.CategoryFries, 149,
			models.Nutrition{Calories: 280, Protein: 13, Carbs: 18, Fat: 17}, false),
		product("Coca Cola", "Chilled classic cola",
			models.CategoryBeverages, 59,
			models.Nutrition{Calories: 150, Protein: 0, Carbs: 39, Fat: 0}, false),
		product("Orange Juice", "Freshly squeezed orange juice",
			models.CategoryBeverages, 69,
			models.Nutrition{Calories: 110, Protein: 2, Carbs: 26, Fat: 0}, false),
		product("McFlurry", "Soft-serve ice cream with Oreo pieces and caramel",
			models.CategoryDesserts, 99,
			models.Nutrition{Calories: 330, Protein: 8, Carbs: 53, Fat: 10}, true,
			"Ice Cream", "Oreo Cookies", "Caramel Sauce"),
	}
}

func seedDeals(now time.Time) []models.Deal {
	amount := func(v float64) *float64 { return &v }

	return []models.Deal{
		{
			Code:              "WELCOME20",
			Name:              "Welcome Offer",
			Description:       "Get 20% off on your first order",
			DiscountType:      models.DiscountPercentage,
			DiscountValue:     20,
			MinOrderAmount:    amount(200),
			MaxDiscountAmount: amount(100),
			ValidFrom:         now,
			ValidUntil:        now.AddDate(0, 0, 90),
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			Code:           "FLAT50",
			Name:           "Flat ₹50 Off",
			Description:    "Get flat ₹50 off on orders above ₹300",
			DiscountType:   models.DiscountFixed,
			DiscountValue:  50,
			MinOrderAmount: amount(300),
			ValidFrom:      now,
			ValidUntil:     now.AddDate(0, 0, 30),
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			Code:                 "BURGER30",
			Name:                 "Burger Special",
			Description:          "Get 30% off on all burgers",
			DiscountType:         models.DiscountPercentage,
			DiscountValue:        30,
			ApplicableCategories: []string{models.CategoryBurgers},
			ValidFrom:            now,
			ValidUntil:           now.AddDate(0, 0, 60),
			IsActive:             true,
			CreatedAt:            now,
			UpdatedAt:            now,
		},
	}
}

func seedStores(now time.Time) []models.Store {
	allWeek := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	return []models.Store{
		{
			Name:      "Downtown",
			Address: models.Address{
				Street: "123 Main Street", City: "Mumbai", State: "Maharashtra",
				ZipCode: "400001", Landmark: "Near Central Station",
			},
			Location:  models.Location{Latitude: 19.0760, Longitude: 72.8777},
			Phone:     "+91 22 1234 5678",
			Email:     "downtown@storefront.example",
			Timing:    models.Timing{Open: "07:00", Close: "23:00"},
			DaysOpen:  allWeek,
			IsOpen:    true,
			Services:  models.StoreServices{DineIn: true, Takeaway: true, Delivery: true},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			Name:      "City Mall",
			Address: models.Address{
				Street: "456 Shopping Avenue", City: "Mumbai", State: "Maharashtra",
				ZipCode: "400052", Landmark: "Inside City Mall",
			},
			Location:  models.Location{Latitude: 19.1334, Longitude: 72.8267},
			Phone:     "+91 22 2345 6789",
			Email:     "mall@storefront.example",
			Timing:    models.Timing{Open: "10:00", Close: "22:00"},
			DaysOpen:  allWeek,
			IsOpen:    true,
			Services:  models.StoreServices{DineIn: true, Takeaway: true, Delivery: false},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			Name:      "Airport",
			Address: models.Address{
				Street: "Terminal 2", City: "Mumbai", State: "Maharashtra",
				ZipCode: "400099", Landmark: "Domestic Terminal",
			},
			Location:  models.Location{Latitude: 19.0896, Longitude: 72.8656},
			Phone:     "+91 22 3456 7890",
			Timing:    models.Timing{Open: "00:00", Close: "23:59"},
			DaysOpen:  allWeek,
			IsOpen:    true,
			Services:  models.StoreServices{DineIn: true, Takeaway: true, Delivery: false},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
