// Package handlers holds the HTTP layer. The generic CRUD handlers below are
// parametrized by a resource collection; route modules compose them with
// per-resource hooks (filter seeds, related-entity expansion, after-write
// callbacks).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/roamtrails/tours-api/internal/domain/repository"
	"github.com/roamtrails/tours-api/internal/query"
	"github.com/roamtrails/tours-api/pkg/response"
	"github.com/roamtrails/tours-api/pkg/validation"
)

// SeedFunc contributes pre-set filter conditions to a list query, e.g.
// scoping reviews to the tour in the route path.
type SeedFunc func(c *gin.Context) bson.M

// PrepareFunc mutates a bound document before insert (defaults, ids pulled
// from the route or the authenticated user). A returned error aborts with 400.
type PrepareFunc[T any] func(c *gin.Context, doc *T) error

// ExpandFunc loads related entities onto a fetched document.
type ExpandFunc[T any] func(c *gin.Context, doc *T) error

// AfterFunc runs once a write has been persisted (derived-data recompute,
// search indexing).
type AfterFunc[T any] func(c *gin.Context, doc *T)

// CheckFunc validates a partial-update set. A returned error aborts with 400.
type CheckFunc func(set bson.M) error

func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "no document found with that id")
	case errors.Is(err, repository.ErrDuplicate):
		response.Error(c, http.StatusConflict, "duplicate value for a unique field")
	default:
		response.Error(c, http.StatusInternalServerError, "something went wrong")
	}
}

// ListHandler applies the seed, then the full query-feature pipeline, and
// returns the matched set with its count. Empty results are a success.
func ListHandler[T any](coll repository.Collection[T], seed SeedFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		spec := query.Build(c.Request.URL.Query())
		if seed != nil {
			spec.Seed(seed(c))
		}
		docs, err := coll.FindAll(c.Request.Context(), spec)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		response.List(c, docs, len(docs))
	}
}

func GetHandler[T any](coll repository.Collection[T], expand ExpandFunc[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := coll.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if expand != nil {
			if err := expand(c, doc); err != nil {
				writeStoreError(c, err)
				return
			}
		}
		response.Success(c, http.StatusOK, doc)
	}
}

func CreateHandler[T any](coll repository.Collection[T], prepare PrepareFunc[T], after AfterFunc[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc T
		if err := c.ShouldBindJSON(&doc); err != nil {
			response.ErrorDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
		if prepare != nil {
			if err := prepare(c, &doc); err != nil {
				response.Error(c, http.StatusBadRequest, err.Error())
				return
			}
		}
		out, err := coll.InsertOne(c.Request.Context(), &doc)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if after != nil {
			after(c, out)
		}
		response.Success(c, http.StatusCreated, out)
	}
}

// UpdateHandler performs a partial update. Only fields in allowed pass
// through; check can reject values the schema would not accept.
func UpdateHandler[T any](coll repository.Collection[T], allowed []string, check CheckFunc, after AfterFunc[T]) gin.HandlerFunc {
	allowSet := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		allowSet[f] = true
	}
	return func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			response.ErrorDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
		set := bson.M{}
		for k, v := range body {
			if allowSet[k] {
				set[k] = v
			}
		}
		if len(set) == 0 {
			response.Error(c, http.StatusBadRequest, "no updatable fields in payload")
			return
		}
		if check != nil {
			if err := check(set); err != nil {
				response.Error(c, http.StatusBadRequest, err.Error())
				return
			}
		}
		out, err := coll.UpdateByID(c.Request.Context(), c.Param("id"), set)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if after != nil {
			after(c, out)
		}
		response.Success(c, http.StatusOK, out)
	}
}

func DeleteHandler[T any](coll repository.Collection[T], after AfterFunc[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := coll.DeleteByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if after != nil {
			after(c, doc)
		}
		response.NoContent(c)
	}
}
