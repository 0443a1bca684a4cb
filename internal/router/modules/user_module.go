package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roamtrails/tours-api/internal/container"
	"github.com/roamtrails/tours-api/internal/domain/entity"
	handlers "github.com/roamtrails/tours-api/internal/interface/http"
	"github.com/roamtrails/tours-api/internal/interface/middleware"
	"github.com/roamtrails/tours-api/pkg/helpers"
)

// UserModule wires the auth flows and the user routes.
// Public: POST /users/signup, POST /users/login, POST /users/forgot-password,
// PATCH /users/reset-password/:token
// Protected: GET /users/logout, PATCH /users/change-password, /users/me self
// routes, plus the admin-only collection routes.
type UserModule struct {
	Auth  *handlers.AuthHandler
	Users *handlers.UserHandler
	Admin *handlers.AdminUserHandler
	JWT   *helpers.JWTManager
	Load  middleware.UserLoader
}

func NewUserModule(auth *handlers.AuthHandler, users *handlers.UserHandler, admin *handlers.AdminUserHandler, jwt *helpers.JWTManager, load middleware.UserLoader) *UserModule {
	return &UserModule{Auth: auth, Users: users, Admin: admin, JWT: jwt, Load: load}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Credential endpoints get tight per-IP limits on top of the global one.
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	forgotLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	users := rg.Group("/users")

	users.POST("/signup", m.Auth.Signup)
	users.POST("/login", loginLimiter, m.Auth.Login)
	users.POST("/forgot-password", forgotLimiter, m.Auth.ForgotPassword)
	users.PATCH("/reset-password/:token", m.Auth.ResetPassword)

	auth := users.Group("")
	auth.Use(middleware.Protect(m.JWT, m.Load))
	{
		auth.GET("/logout", m.Auth.Logout)
		auth.PATCH("/change-password", m.Auth.ChangePassword)

		auth.GET("/me", m.Users.Me)
		auth.PATCH("/update-me", m.Users.UpdateMe)
		auth.DELETE("/delete-me", m.Users.DeleteMe)

		admin := auth.Group("")
		admin.Use(middleware.RestrictTo(entity.RoleAdmin))
		{
			admin.GET("", m.Admin.List)
			admin.POST("", m.Users.CreateUser)
			admin.GET("/:id", m.Admin.Get)
			admin.PATCH("/:id", m.Admin.Update)
			admin.DELETE("/:id", m.Admin.Delete)
		}
	}
}
