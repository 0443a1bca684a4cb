package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	handlers "github.com/roamtrails/tours-api/internal/interface/http"
	"github.com/roamtrails/tours-api/internal/interface/middleware"
	"github.com/roamtrails/tours-api/pkg/helpers"
)

// ReviewModule registers the flat review collection. Reads are public;
// mutations need a session and are kept to regular users (the review's
// author comes from the session) and admins.
type ReviewModule struct {
	Reviews *handlers.ReviewHandler
	JWT     *helpers.JWTManager
	Load    middleware.UserLoader
}

func NewReviewModule(reviews *handlers.ReviewHandler, jwt *helpers.JWTManager, load middleware.UserLoader) *ReviewModule {
	return &ReviewModule{Reviews: reviews, JWT: jwt, Load: load}
}

func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	reviews := rg.Group("/reviews")

	reviews.GET("", m.Reviews.List)
	reviews.GET("/:id", m.Reviews.Get)

	write := reviews.Group("")
	write.Use(middleware.Protect(m.JWT, m.Load), middleware.RestrictTo(entity.RoleUser, entity.RoleAdmin))
	{
		write.POST("", m.Reviews.Create)
		write.PATCH("/:id", m.Reviews.Update)
		write.DELETE("/:id", m.Reviews.Delete)
	}
}
