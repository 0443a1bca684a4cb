package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamtrails/tours-api/internal/application"
	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
	"github.com/roamtrails/tours-api/internal/interface/middleware"
)

var reviewUpdatable = []string{"review", "rating"}

type ReviewHandler struct {
	Repo repository.ReviewRepository
	Svc  *application.ReviewService

	list   gin.HandlerFunc
	get    gin.HandlerFunc
	create gin.HandlerFunc
	update gin.HandlerFunc
	remove gin.HandlerFunc
}

func NewReviewHandler(repo repository.ReviewRepository, svc *application.ReviewService) *ReviewHandler {
	h := &ReviewHandler{Repo: repo, Svc: svc}
	h.list = ListHandler[entity.Review](repo, seedTourFilter)
	h.get = GetHandler[entity.Review](repo, h.expandAuthor)
	h.create = CreateHandler[entity.Review](repo, prepareReview, h.afterWrite)
	h.update = UpdateHandler[entity.Review](repo, reviewUpdatable, checkReviewUpdate, h.afterWrite)
	h.remove = DeleteHandler[entity.Review](repo, h.afterWrite)
	return h
}

func (h *ReviewHandler) List(c *gin.Context)   { h.list(c) }
func (h *ReviewHandler) Get(c *gin.Context)    { h.get(c) }
func (h *ReviewHandler) Create(c *gin.Context) { h.create(c) }
func (h *ReviewHandler) Update(c *gin.Context) { h.update(c) }
func (h *ReviewHandler) Delete(c *gin.Context) { h.remove(c) }

// seedTourFilter scopes nested /tours/:id/reviews lists to that tour. On
// the flat collection route the param is empty and nothing is seeded; on the
// single-review routes the factory reads the param itself and never calls
// the seed.
func seedTourFilter(c *gin.Context) bson.M {
	tourID := c.Param("id")
	if tourID == "" {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(tourID)
	if err != nil {
		// An unparseable id matches nothing rather than everything.
		return bson.M{"tour": primitive.NilObjectID}
	}
	return bson.M{"tour": oid}
}

// prepareReview fills tour and author refs the client is not trusted to set:
// the tour comes from the route when nested, the author always from the
// session.
func prepareReview(c *gin.Context, r *entity.Review) error {
	if tourID := c.Param("id"); tourID != "" {
		oid, err := primitive.ObjectIDFromHex(tourID)
		if err != nil {
			return errors.New("invalid tour id in the route")
		}
		r.Tour = oid
	}
	if r.Tour.IsZero() {
		return errors.New("a review must reference a tour")
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return errors.New("a review must have an author")
	}
	r.User = user.ID
	r.CreatedAt = time.Now()
	return nil
}

func checkReviewUpdate(set bson.M) error {
	if v, ok := set["rating"]; ok {
		r, ok := v.(float64)
		if !ok || r < 1 || r > 5 {
			return errors.New("rating must be between 1 and 5")
		}
	}
	return nil
}

func (h *ReviewHandler) expandAuthor(c *gin.Context, r *entity.Review) error {
	author, err := h.Repo.GetAuthor(c.Request.Context(), r)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	r.Author = author
	return nil
}

// afterWrite recomputes the owning tour's rating aggregate. It runs for
// creates, updates and deletes alike.
func (h *ReviewHandler) afterWrite(c *gin.Context, r *entity.Review) {
	h.Svc.SyncTourRatings(c.Request.Context(), r.Tour)
}
