package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roamtrails/tours-api/config"
	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/infrastructure/mongodb"
	"github.com/roamtrails/tours-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoConnTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	email := "admin@roamtrails.dev"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := db.Collection(mongodb.UsersColl)
	res, err := users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"name":     "Demo Admin",
				"password": hash,
				"role":     entity.RoleAdmin,
				"active":   true,
			},
			"$setOnInsert": bson.M{"created_at": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: email=%s password=%s (matched=%d upserted=%v)\n",
		email, password, res.MatchedCount, res.UpsertedID)

	tours := db.Collection(mongodb.ToursColl)
	for _, t := range sampleTours() {
		_, err := tours.UpdateOne(ctx,
			bson.M{"name": t.Name},
			bson.M{"$setOnInsert": t},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			log.Fatalf("failed to seed tour %q: %v", t.Name, err)
		}
	}
	fmt.Printf("seeded %d sample tours\n", len(sampleTours()))
}

func sampleTours() []entity.Tour {
	now := time.Now()
	return []entity.Tour{
		{
			Name:           "The Forest Hiker",
			Duration:       5,
			MaxGroupSize:   25,
			Difficulty:     entity.DifficultyEasy,
			Price:          397,
			Summary:        "Breathtaking hike through the Canadian Banff National Park",
			RatingsAverage: entity.DefaultRatingsAverage,
			StartDates:     []time.Time{now.AddDate(0, 1, 0), now.AddDate(0, 4, 0)},
			StartLocation: &entity.Location{
				Type:        "Point",
				Coordinates: []float64{-115.570154, 51.178456},
				Address:     "224 Banff Ave, Banff, AB, Canada",
				Description: "Banff, CAN",
			},
			CreatedAt: now,
		},
		{
			Name:           "The Sea Explorer",
			Duration:       7,
			MaxGroupSize:   15,
			Difficulty:     entity.DifficultyMedium,
			Price:          497,
			Summary:        "Exploring the jaw-dropping US east coast by foot and by boat",
			RatingsAverage: entity.DefaultRatingsAverage,
			StartDates:     []time.Time{now.AddDate(0, 2, 0)},
			StartLocation: &entity.Location{
				Type:        "Point",
				Coordinates: []float64{-80.185942, 25.774772},
				Address:     "301 Biscayne Blvd, Miami, FL, USA",
				Description: "Miami, USA",
			},
			CreatedAt: now,
		},
		{
			Name:           "The Snow Adventurer",
			Duration:       4,
			MaxGroupSize:   10,
			Difficulty:     entity.DifficultyDifficult,
			Price:          997,
			Summary:        "Exciting adventure in the snow with snowboarding and skiing",
			RatingsAverage: entity.DefaultRatingsAverage,
			StartDates:     []time.Time{now.AddDate(0, 5, 0)},
			StartLocation: &entity.Location{
				Type:        "Point",
				Coordinates: []float64{-106.822318, 39.190872},
				Address:     "419 S Mill St, Aspen, CO, USA",
				Description: "Aspen, USA",
			},
			CreatedAt: now,
		},
	}
}
