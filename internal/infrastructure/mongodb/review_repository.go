package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
)

type ReviewRepository struct {
	*Repo[entity.Review]
	coll  *mongo.Collection
	users *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	coll := db.Collection(ReviewsColl)
	return &ReviewRepository{
		Repo:  NewRepo[entity.Review](coll, nil),
		coll:  coll,
		users: db.Collection(UsersColl),
	}
}

// RatingStats aggregates average and count over all reviews of a tour.
func (r *ReviewRepository) RatingStats(ctx context.Context, tourID primitive.ObjectID) (float64, int64, bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tour": tourID}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$tour",
			"avg_rating": bson.M{"$avg": "$rating"},
			"n_ratings":  bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, false, err
	}
	var stats []struct {
		AvgRating float64 `bson:"avg_rating"`
		NRatings  int64   `bson:"n_ratings"`
	}
	if err := cur.All(ctx, &stats); err != nil {
		return 0, 0, false, err
	}
	if len(stats) == 0 {
		return 0, 0, false, nil
	}
	return stats[0].AvgRating, stats[0].NRatings, true, nil
}

func (r *ReviewRepository) GetAuthor(ctx context.Context, review *entity.Review) (*entity.User, error) {
	var u entity.User
	err := r.users.FindOne(ctx, bson.M{"_id": review.User}).Decode(&u)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *ReviewRepository) ByTour(ctx context.Context, tourID primitive.ObjectID) ([]entity.Review, error) {
	cur, err := r.coll.Find(ctx, bson.M{"tour": tourID})
	if err != nil {
		return nil, err
	}
	reviews := make([]entity.Review, 0)
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)
