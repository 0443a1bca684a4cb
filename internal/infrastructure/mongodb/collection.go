package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roamtrails/tours-api/internal/domain/repository"
	"github.com/roamtrails/tours-api/internal/query"
)

// Repo is the generic document repository behind every resource collection.
// An optional scope filter (soft-deleted users, secret tours) is merged into
// every read. A plain scope yields to a caller filtering the same key; a
// strict scope always wins, so client query parameters cannot disable it.
type Repo[T any] struct {
	coll   *mongo.Collection
	scope  bson.M
	strict bool
}

func NewRepo[T any](coll *mongo.Collection, scope bson.M) *Repo[T] {
	return &Repo[T]{coll: coll, scope: scope}
}

// NewStrictRepo is NewRepo with a scope the caller cannot override.
func NewStrictRepo[T any](coll *mongo.Collection, scope bson.M) *Repo[T] {
	return &Repo[T]{coll: coll, scope: scope, strict: true}
}

func (r *Repo[T]) scoped(filter bson.M) bson.M {
	for k, v := range r.scope {
		if r.strict {
			filter[k] = v
			continue
		}
		if _, ok := filter[k]; !ok {
			filter[k] = v
		}
	}
	return filter
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return err
	}
}

func oidFromHex(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}

func (r *Repo[T]) FindAll(ctx context.Context, spec query.FindSpec) ([]T, error) {
	opts := options.Find().
		SetSort(spec.Sort).
		SetSkip(spec.Skip).
		SetLimit(spec.Limit)
	if spec.Projection != nil {
		opts.SetProjection(spec.Projection)
	}
	filter := spec.Filter
	if filter == nil {
		filter = bson.M{}
	}
	cur, err := r.coll.Find(ctx, r.scoped(filter), opts)
	if err != nil {
		return nil, err
	}
	docs := make([]T, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *Repo[T]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := oidFromHex(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *Repo[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := r.coll.FindOne(ctx, r.scoped(filter)).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return &doc, nil
}

func (r *Repo[T]) InsertOne(ctx context.Context, doc *T) (*T, error) {
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, mapErr(err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return doc, nil
	}
	// Re-read so the caller gets the document exactly as persisted.
	var out T
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&out); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (r *Repo[T]) UpdateByID(ctx context.Context, id string, set bson.M) (*T, error) {
	oid, err := oidFromHex(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc T
	err = r.coll.FindOneAndUpdate(ctx, r.scoped(bson.M{"_id": oid}), bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	return &doc, nil
}

func (r *Repo[T]) DeleteByID(ctx context.Context, id string) (*T, error) {
	oid, err := oidFromHex(id)
	if err != nil {
		return nil, err
	}
	var doc T
	err = r.coll.FindOneAndDelete(ctx, r.scoped(bson.M{"_id": oid})).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	return &doc, nil
}
