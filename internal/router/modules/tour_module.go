package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	handlers "github.com/roamtrails/tours-api/internal/interface/http"
	"github.com/roamtrails/tours-api/internal/interface/middleware"
	"github.com/roamtrails/tours-api/pkg/helpers"
)

// TourModule registers the tour routes. Reads are public; writes are gated
// to admin and lead-guide, the monthly plan additionally admits guides.
type TourModule struct {
	Tours   *handlers.TourHandler
	Reviews *handlers.ReviewHandler
	JWT     *helpers.JWTManager
	Load    middleware.UserLoader
}

func NewTourModule(tours *handlers.TourHandler, reviews *handlers.ReviewHandler, jwt *helpers.JWTManager, load middleware.UserLoader) *TourModule {
	return &TourModule{Tours: tours, Reviews: reviews, JWT: jwt, Load: load}
}

func (m *TourModule) Register(rg *gin.RouterGroup) {
	tours := rg.Group("/tours")

	tours.GET("", m.Tours.List)
	tours.GET("/top-5-tours", m.Tours.TopTours)
	tours.GET("/stats", m.Tours.Stats)
	tours.GET("/search", m.Tours.Search)
	tours.GET("/tours-within/:distance/center/:latlong/unit/:unit", m.Tours.ToursWithin)
	tours.GET("/:id", m.Tours.Get)

	protect := middleware.Protect(m.JWT, m.Load)

	tours.GET("/monthly-plans/:year", protect,
		middleware.RestrictTo(entity.RoleAdmin, entity.RoleLeadGuide, entity.RoleGuide),
		m.Tours.MonthlyPlan)

	staff := tours.Group("")
	staff.Use(protect, middleware.RestrictTo(entity.RoleAdmin, entity.RoleLeadGuide))
	{
		staff.POST("", m.Tours.Create)
		staff.PATCH("/:id", m.Tours.Update)
		staff.DELETE("/:id", m.Tours.Delete)
	}

	// Nested review routes. The ":id" param here is the tour; the review
	// handlers know to read it that way on nested paths.
	nested := tours.Group("/:id/reviews")
	nested.GET("", m.Reviews.List)
	nested.POST("", protect, middleware.RestrictTo(entity.RoleUser, entity.RoleAdmin), m.Reviews.Create)
}
