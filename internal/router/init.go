package router

import (
	"github.com/roamtrails/tours-api/internal/application"
	"github.com/roamtrails/tours-api/internal/container"
	"github.com/roamtrails/tours-api/internal/infrastructure/mongodb"
	handlers "github.com/roamtrails/tours-api/internal/interface/http"
	"github.com/roamtrails/tours-api/internal/router/modules"
)

// InitModules builds every repository, service and handler from the
// container singletons and registers the feature modules. Called once during
// startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	db := container.GetMongoDB()
	logger := container.GetLogger()

	userRepo := mongodb.NewUserRepository(db)
	tourRepo := mongodb.NewTourRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)

	authSvc := application.NewAuthService(
		userRepo,
		container.GetJWT(),
		container.GetRabbitPub(),
		logger,
		cfg.PasswordResetTTL,
		cfg.ResetPasswordURL,
		cfg.AccountURL,
	)
	userSvc := application.NewUserService(userRepo)
	tourSvc := application.NewTourService(tourRepo, logger, container.GetES(), cfg.ESToursIndex)
	reviewSvc := application.NewReviewService(reviewRepo, tourRepo, logger)

	authHandler := handlers.NewAuthHandler(authSvc, container.GetCookie())
	userHandler := handlers.NewUserHandler(userSvc)
	adminHandler := handlers.NewAdminUserHandler(userRepo)
	tourHandler := handlers.NewTourHandler(tourRepo, reviewRepo, tourSvc)
	reviewHandler := handlers.NewReviewHandler(reviewRepo, reviewSvc)

	jwt := container.GetJWT()

	r.Add(modules.NewUserModule(authHandler, userHandler, adminHandler, jwt, userRepo))
	r.Add(modules.NewTourModule(tourHandler, reviewHandler, jwt, userRepo))
	r.Add(modules.NewReviewModule(reviewHandler, jwt, userRepo))
}
