package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
)

// TourRepository stores tours. Secret tours are hidden from every read; the
// scope is strict because tour listing is a public route, so a query
// parameter must not be able to lift it.
type TourRepository struct {
	*Repo[entity.Tour]
	coll *mongo.Collection
}

func NewTourRepository(db *mongo.Database) *TourRepository {
	coll := db.Collection(ToursColl)
	scope := bson.M{"secret_tour": bson.M{"$ne": true}}
	return &TourRepository{Repo: NewStrictRepo[entity.Tour](coll, scope), coll: coll}
}

// Stats groups well-rated tours per difficulty.
func (r *TourRepository) Stats(ctx context.Context) ([]repository.DifficultyStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ratings_average": bson.M{"$gte": 4.5}}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$difficulty",
			"num_tours":  bson.M{"$sum": 1},
			"avg_rating": bson.M{"$avg": "$ratings_average"},
			"avg_price":  bson.M{"$avg": "$price"},
			"min_price":  bson.M{"$min": "$price"},
			"max_price":  bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"min_price": 1}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	stats := make([]repository.DifficultyStats, 0)
	if err := cur.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// MonthlyPlan unwinds start dates and buckets the year's departures by month.
func (r *TourRepository) MonthlyPlan(ctx context.Context, year int) ([]repository.MonthPlan, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$start_dates"}},
		{{Key: "$match", Value: bson.M{"start_dates": bson.M{"$gte": from, "$lte": to}}}},
		{{Key: "$group", Value: bson.M{
			"_id":       bson.M{"$month": "$start_dates"},
			"num_tours": bson.M{"$sum": 1},
			"tours":     bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.M{"num_tours": -1}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	plan := make([]repository.MonthPlan, 0)
	if err := cur.All(ctx, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Within runs a sphere-cap geo query; radius is in radians.
func (r *TourRepository) Within(ctx context.Context, lat, lng, radius float64) ([]entity.Tour, error) {
	filter := r.scoped(bson.M{
		"start_location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radius},
			},
		},
	})
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	tours := make([]entity.Tour, 0)
	if err := cur.All(ctx, &tours); err != nil {
		return nil, err
	}
	return tours, nil
}

func (r *TourRepository) UpdateRatingStats(ctx context.Context, tourID primitive.ObjectID, avg float64, quantity int64) error {
	res, err := r.coll.UpdateByID(ctx, tourID, bson.M{"$set": bson.M{
		"ratings_average":  avg,
		"ratings_quantity": quantity,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("tour %s: %w", tourID.Hex(), repository.ErrNotFound)
	}
	return nil
}

var _ repository.TourRepository = (*TourRepository)(nil)
