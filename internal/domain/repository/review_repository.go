package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamtrails/tours-api/internal/domain/entity"
)

type ReviewRepository interface {
	Collection[entity.Review]

	// RatingStats aggregates all reviews of a tour. found is false when the
	// tour has no reviews at all.
	RatingStats(ctx context.Context, tourID primitive.ObjectID) (avg float64, count int64, found bool, err error)
	GetAuthor(ctx context.Context, review *entity.Review) (*entity.User, error)
	ByTour(ctx context.Context, tourID primitive.ObjectID) ([]entity.Review, error)
}
