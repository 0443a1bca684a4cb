package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/roamtrails/tours-api/internal/query"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Collection is the capability contract generic CRUD is parametrized over:
// any resource collection that can look up by id, create, update, delete and
// execute a composed find specification.
type Collection[T any] interface {
	FindAll(ctx context.Context, spec query.FindSpec) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	InsertOne(ctx context.Context, doc *T) (*T, error)
	UpdateByID(ctx context.Context, id string, set bson.M) (*T, error)
	DeleteByID(ctx context.Context, id string) (*T, error)
}
