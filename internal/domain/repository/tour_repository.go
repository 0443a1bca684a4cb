package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamtrails/tours-api/internal/domain/entity"
)

// DifficultyStats is one bucket of the per-difficulty aggregate.
type DifficultyStats struct {
	Difficulty string  `bson:"_id" json:"difficulty"`
	NumTours   int64   `bson:"num_tours" json:"num_tours"`
	AvgRating  float64 `bson:"avg_rating" json:"avg_rating"`
	AvgPrice   float64 `bson:"avg_price" json:"avg_price"`
	MinPrice   float64 `bson:"min_price" json:"min_price"`
	MaxPrice   float64 `bson:"max_price" json:"max_price"`
}

// MonthPlan is one bucket of the monthly-plan aggregate for a year.
type MonthPlan struct {
	Month     int      `bson:"month" json:"month"`
	NumTours  int64    `bson:"num_tours" json:"num_tours"`
	TourNames []string `bson:"tours" json:"tours"`
}

type TourRepository interface {
	Collection[entity.Tour]

	Stats(ctx context.Context) ([]DifficultyStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]MonthPlan, error)
	// Within returns tours whose start location lies inside the sphere cap of
	// the given radius (in radians) around the center point.
	Within(ctx context.Context, lat, lng, radius float64) ([]entity.Tour, error)
	UpdateRatingStats(ctx context.Context, tourID primitive.ObjectID, avg float64, quantity int64) error
}
