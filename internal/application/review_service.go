package application

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
)

// ReviewService keeps a tour's derived rating fields in sync with its
// reviews. Handlers call SyncTourRatings after every review write; there are
// no implicit hooks.
type ReviewService struct {
	Reviews repository.ReviewRepository
	Tours   repository.TourRepository
	Logger  *logrus.Logger
}

func NewReviewService(reviews repository.ReviewRepository, tours repository.TourRepository, logger *logrus.Logger) *ReviewService {
	return &ReviewService{Reviews: reviews, Tours: tours, Logger: logger}
}

// ratingOrDefault picks the aggregate when reviews exist, and resets to the
// default average with zero count when none remain.
func ratingOrDefault(avg float64, count int64, found bool) (float64, int64) {
	if !found {
		return entity.DefaultRatingsAverage, 0
	}
	return avg, count
}

// SyncTourRatings recomputes a tour's ratings aggregate from the current
// review set. Failures are logged, not surfaced: the review write itself has
// already succeeded and the aggregate is eventually consistent.
func (s *ReviewService) SyncTourRatings(ctx context.Context, tourID primitive.ObjectID) {
	avg, count, found, err := s.Reviews.RatingStats(ctx, tourID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("tour_id", tourID.Hex()).Error("rating stats aggregation failed")
		}
		return
	}
	avg, count = ratingOrDefault(avg, count, found)
	if err := s.Tours.UpdateRatingStats(ctx, tourID, avg, count); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("tour_id", tourID.Hex()).Error("rating stats update failed")
	}
}
