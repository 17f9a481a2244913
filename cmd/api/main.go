package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/anderswb/laundry-room-api/api/swagger"
	"github.com/anderswb/laundry-room-api/internal/handler"
	internalmiddleware "github.com/anderswb/laundry-room-api/internal/middleware"
	"github.com/anderswb/laundry-room-api/internal/models"
	"github.com/anderswb/laundry-room-api/internal/repository"
	"github.com/anderswb/laundry-room-api/internal/service"
	"github.com/anderswb/laundry-room-api/pkg/cache"
	"github.com/anderswb/laundry-room-api/pkg/config"
	"github.com/anderswb/laundry-room-api/pkg/database"
	"github.com/anderswb/laundry-room-api/pkg/export"
	"github.com/anderswb/laundry-room-api/pkg/logger"
	corsmiddleware "github.com/anderswb/laundry-room-api/pkg/middleware/cors"
	reqidmiddleware "github.com/anderswb/laundry-room-api/pkg/middleware/requestid"
)

// @title Laundry Room API
// @version 1.0.0
// @description Slot booking for the shared laundry room
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	// Redis is optional; without it the week view simply skips caching.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	scheduleSvc := service.NewScheduleService(scheduleRepo, cacheRepo, logr)
	if err := scheduleSvc.Load(context.Background()); err != nil {
		logr.Sugar().Fatalw("schedule settings load failed", "error", err)
	}
	bookingSvc := service.NewBookingService(bookingRepo, scheduleSvc, cacheRepo, metricsSvc, validate, logr, cfg.Schedule.CacheTTL)
	userSvc := service.NewUserService(userRepo)
	exportSvc := service.NewExportService(bookingRepo, export.NewCSVExporter(), export.NewPDFExporter())

	authHandler := handler.NewAuthHandler(authSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	scheduleHandler := handler.NewScheduleHandler(bookingSvc, scheduleSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	userHandler := handler.NewUserHandler(userSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", internalmiddleware.JWT(authSvc), authHandler.Me)

	api.GET("/schedule/week", scheduleHandler.Week)

	// Booking creation works for guests too; identity is taken from the
	// token when one is present.
	api.GET("/bookings", bookingHandler.List)
	api.POST("/bookings", internalmiddleware.OptionalJWT(authSvc), bookingHandler.Create)
	api.DELETE("/bookings/:id", internalmiddleware.JWT(authSvc), bookingHandler.Cancel)

	admin := api.Group("")
	admin.Use(internalmiddleware.JWT(authSvc), internalmiddleware.RequireRoles(models.RoleAdmin))
	admin.GET("/schedule/settings", scheduleHandler.GetSettings)
	admin.PUT("/schedule/settings", scheduleHandler.UpdateSettings)
	admin.GET("/export/bookings.csv", exportHandler.WeekCSV)
	admin.GET("/export/bookings.pdf", exportHandler.WeekPDF)
	admin.GET("/users", userHandler.List)
	admin.GET("/users/:id", userHandler.Get)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
