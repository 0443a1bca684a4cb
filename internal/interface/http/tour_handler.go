package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/roamtrails/tours-api/internal/application"
	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
	"github.com/roamtrails/tours-api/pkg/response"
)

// tourUpdatable lists the document fields a partial tour update may touch.
var tourUpdatable = []string{
	"name", "duration", "max_group_size", "difficulty", "price",
	"price_discount", "summary", "description", "image_cover", "images",
	"start_dates", "start_location", "locations", "guides", "secret_tour",
}

type TourHandler struct {
	Repo    repository.TourRepository
	Reviews repository.ReviewRepository
	Svc     *application.TourService

	list   gin.HandlerFunc
	get    gin.HandlerFunc
	create gin.HandlerFunc
	update gin.HandlerFunc
	remove gin.HandlerFunc
}

func NewTourHandler(repo repository.TourRepository, reviews repository.ReviewRepository, svc *application.TourService) *TourHandler {
	h := &TourHandler{Repo: repo, Reviews: reviews, Svc: svc}
	h.list = ListHandler[entity.Tour](repo, nil)
	h.get = GetHandler[entity.Tour](repo, h.expandReviews)
	h.create = CreateHandler[entity.Tour](repo, h.prepareCreate, h.afterWrite)
	h.update = UpdateHandler[entity.Tour](repo, tourUpdatable, checkTourUpdate, h.afterWrite)
	h.remove = DeleteHandler[entity.Tour](repo, h.afterDelete)
	return h
}

func (h *TourHandler) List(c *gin.Context)   { h.list(c) }
func (h *TourHandler) Get(c *gin.Context)    { h.get(c) }
func (h *TourHandler) Create(c *gin.Context) { h.create(c) }
func (h *TourHandler) Update(c *gin.Context) { h.update(c) }
func (h *TourHandler) Delete(c *gin.Context) { h.remove(c) }

func (h *TourHandler) expandReviews(c *gin.Context, t *entity.Tour) error {
	reviews, err := h.Reviews.ByTour(c.Request.Context(), t.ID)
	if err != nil {
		return err
	}
	t.Reviews = reviews
	return nil
}

func (h *TourHandler) prepareCreate(c *gin.Context, t *entity.Tour) error {
	if t.PriceDiscount > 0 && t.PriceDiscount >= t.Price {
		return errors.New("price_discount must be below the regular price")
	}
	if t.RatingsAverage == 0 {
		t.RatingsAverage = entity.DefaultRatingsAverage
	}
	t.RatingsQuantity = 0
	t.CreatedAt = time.Now()
	return nil
}

func checkTourUpdate(set bson.M) error {
	if d, ok := set["difficulty"]; ok {
		switch d {
		case entity.DifficultyEasy, entity.DifficultyMedium, entity.DifficultyDifficult:
		default:
			return errors.New("difficulty must be easy, medium or difficult")
		}
	}
	if p, ok := set["price"].(float64); ok && p < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}

func (h *TourHandler) afterWrite(c *gin.Context, t *entity.Tour) {
	h.Svc.IndexTour(c.Request.Context(), t)
}

func (h *TourHandler) afterDelete(c *gin.Context, t *entity.Tour) {
	h.Svc.RemoveTourIndex(c.Request.Context(), t.ID.Hex())
}

// TopTours is a preset over List: the five best-rated cheap-first tours with
// a trimmed field set.
func (h *TourHandler) TopTours(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Set("limit", "5")
	q.Set("sort", "-ratings_average,price")
	q.Set("fields", "name,price,ratings_average,summary,difficulty")
	c.Request.URL.RawQuery = q.Encode()
	h.list(c)
}

func (h *TourHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not compute tour stats")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

func (h *TourHandler) MonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1000 || year > 9999 {
		response.Error(c, http.StatusBadRequest, "year must be a four digit number")
		return
	}
	plan, err := h.Svc.MonthlyPlan(c.Request.Context(), year)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not compute the monthly plan")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plan": plan})
}

// ToursWithin handles /tours-within/:distance/center/:latlong/unit/:unit
// where latlong is "lat,lng".
func (h *TourHandler) ToursWithin(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil || distance < 0 {
		response.Error(c, http.StatusBadRequest, "distance must be a non-negative number")
		return
	}
	lat, lng, err := parseLatLong(c.Param("latlong"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	tours, err := h.Svc.Within(c.Request.Context(), distance, lat, lng, c.Param("unit"))
	if err != nil {
		if errors.Is(err, application.ErrBadUnit) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "could not run the geo query")
		return
	}
	response.List(c, tours, len(tours))
}

func parseLatLong(s string) (float64, float64, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("provide the center as lat,lng")
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("provide the center as lat,lng")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("center is out of range")
	}
	return lat, lng, nil
}

func (h *TourHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error(c, http.StatusBadRequest, "q is required")
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "search is unavailable")
		return
	}
	response.List(c, hits, len(hits))
}
