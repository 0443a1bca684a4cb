package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tour difficulties accepted by validation.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// DefaultRatingsAverage is what a tour's average resets to when it has no
// reviews left.
const DefaultRatingsAverage = 4.5

// Location is a GeoJSON point. Coordinates are [longitude, latitude].
type Location struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Day         int       `bson:"day,omitempty" json:"day,omitempty"`
}

// Tour is a bookable trip. RatingsAverage/RatingsQuantity are derived from
// the reviews referencing the tour and recomputed on every review write.
type Tour struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name            string               `bson:"name" json:"name" binding:"required,min=5,max=60"`
	Duration        int                  `bson:"duration" json:"duration" binding:"required,gte=1"`
	MaxGroupSize    int                  `bson:"max_group_size" json:"max_group_size" binding:"required,gte=1"`
	Difficulty      string               `bson:"difficulty" json:"difficulty" binding:"required,oneof=easy medium difficult"`
	Price           float64              `bson:"price" json:"price" binding:"required,gte=0"`
	PriceDiscount   float64              `bson:"price_discount,omitempty" json:"price_discount,omitempty"`
	Summary         string               `bson:"summary" json:"summary" binding:"required"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	ImageCover      string               `bson:"image_cover,omitempty" json:"image_cover,omitempty"`
	Images          []string             `bson:"images,omitempty" json:"images,omitempty"`
	StartDates      []time.Time          `bson:"start_dates,omitempty" json:"start_dates,omitempty"`
	StartLocation   *Location            `bson:"start_location,omitempty" json:"start_location,omitempty"`
	Locations       []Location           `bson:"locations,omitempty" json:"locations,omitempty"`
	Guides          []primitive.ObjectID `bson:"guides,omitempty" json:"guides,omitempty"`
	RatingsAverage  float64              `bson:"ratings_average" json:"ratings_average"`
	RatingsQuantity int64                `bson:"ratings_quantity" json:"ratings_quantity"`
	SecretTour      bool                 `bson:"secret_tour,omitempty" json:"-"`
	CreatedAt       time.Time            `bson:"created_at" json:"created_at"`

	// Reviews is filled on single-tour reads only; the relationship is
	// queried, never stored on the tour document.
	Reviews []Review `bson:"-" json:"reviews,omitempty"`
}
