package application

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
)

func TestRatingOrDefault(t *testing.T) {
	tests := []struct {
		name      string
		avg       float64
		count     int64
		found     bool
		wantAvg   float64
		wantCount int64
	}{
		{"no reviews resets to default", 0, 0, false, entity.DefaultRatingsAverage, 0},
		{"single review", 3.0, 1, true, 3.0, 1},
		{"many reviews", 4.2, 17, true, 4.2, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, count := ratingOrDefault(tt.avg, tt.count, tt.found)
			if avg != tt.wantAvg || count != tt.wantCount {
				t.Fatalf("ratingOrDefault(%v, %d, %v) = (%v, %d), want (%v, %d)",
					tt.avg, tt.count, tt.found, avg, count, tt.wantAvg, tt.wantCount)
			}
		})
	}
}

type stubReviewRepo struct {
	repository.ReviewRepository
	avg   float64
	count int64
	found bool
}

func (s *stubReviewRepo) RatingStats(context.Context, primitive.ObjectID) (float64, int64, bool, error) {
	return s.avg, s.count, s.found, nil
}

type stubTourRepo struct {
	repository.TourRepository
	gotAvg   float64
	gotCount int64
}

func (s *stubTourRepo) UpdateRatingStats(_ context.Context, _ primitive.ObjectID, avg float64, quantity int64) error {
	s.gotAvg = avg
	s.gotCount = quantity
	return nil
}

func TestSyncTourRatings(t *testing.T) {
	reviews := &stubReviewRepo{avg: 4.0, count: 3, found: true}
	tours := &stubTourRepo{}
	svc := NewReviewService(reviews, tours, nil)

	svc.SyncTourRatings(context.Background(), primitive.NewObjectID())
	if tours.gotAvg != 4.0 || tours.gotCount != 3 {
		t.Fatalf("stats written = (%v, %d), want (4.0, 3)", tours.gotAvg, tours.gotCount)
	}

	// Last review removed.
	reviews.found = false
	svc.SyncTourRatings(context.Background(), primitive.NewObjectID())
	if tours.gotAvg != entity.DefaultRatingsAverage || tours.gotCount != 0 {
		t.Fatalf("stats written = (%v, %d), want defaults", tours.gotAvg, tours.gotCount)
	}
}
