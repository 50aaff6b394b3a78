package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/campusfolio/portfolio-api/docs"
	"github.com/campusfolio/portfolio-api/internal/api/handler"
	"github.com/campusfolio/portfolio-api/internal/api/middleware"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
	"github.com/campusfolio/portfolio-api/internal/core/service"
	mongostore "github.com/campusfolio/portfolio-api/internal/infrastructure/db/mongo"
	redisstore "github.com/campusfolio/portfolio-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; the domain registry then skips its cache layer.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portfolio"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	instRepo := mongostore.NewInstitutionRepository(db)
	reqRepo := mongostore.NewInstitutionRequestRepository(db)

	var cache ports.DomainCache
	if rdb != nil {
		cache = redisstore.NewDomainCache(rdb, log)
	}
	institutionService := service.NewInstitutionService(instRepo, reqRepo, userRepo, cache, log)

	authService := service.NewAuthService(userRepo, institutionService, log)
	sessionService := service.NewSessionService(userRepo, jwtSecret, 24*time.Hour, log)
	adminService := service.NewAdminService(userRepo, log)
	userService := service.NewUserService(userRepo, log)

	authHandler := handler.NewAuthHandler(authService, sessionService)
	profileHandler := handler.NewProfileHandler(userService)
	adminHandler := handler.NewAdminHandler(adminService)
	instHandler := handler.NewInstitutionHandler(institutionService)

	// Session resolution runs on every route; the guards below decide
	// which routes demand one.
	e.Use(middleware.Session(sessionService))

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/recovery", authHandler.InitiateRecovery)
	e.POST("/auth/recovery/complete", authHandler.CompleteRecovery)
	e.GET("/institutions", instHandler.List)
	e.POST("/institution-requests", instHandler.SubmitRequest)

	// --- Member routes ---
	member := e.Group("", middleware.RequireSession())
	member.POST("/auth/logout", authHandler.Logout)
	member.GET("/auth/me", authHandler.Me)
	member.GET("/profile", profileHandler.Get)
	member.PATCH("/profile", profileHandler.Update)

	// --- Admin routes ---
	admin := e.Group("/admin", middleware.RequireAdmin())
	admin.POST("/users/:id/ban", adminHandler.Ban)
	admin.POST("/users/:id/unban", adminHandler.Unban)
	admin.PUT("/users/:id/role", adminHandler.SetRole)
	admin.GET("/institution-requests", instHandler.ListPending)
	admin.POST("/institution-requests/:id/decision", instHandler.Decide)
	admin.DELETE("/institutions/:id", instHandler.Delete)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
