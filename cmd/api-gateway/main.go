package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/mentorhub/roster-api/api/swagger"
	"github.com/mentorhub/roster-api/internal/handler"
	"github.com/mentorhub/roster-api/internal/middleware"
	"github.com/mentorhub/roster-api/internal/repository"
	"github.com/mentorhub/roster-api/internal/service"
	"github.com/mentorhub/roster-api/pkg/cache"
	"github.com/mentorhub/roster-api/pkg/config"
	"github.com/mentorhub/roster-api/pkg/database"
	"github.com/mentorhub/roster-api/pkg/logger"
	corsmiddleware "github.com/mentorhub/roster-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mentorhub/roster-api/pkg/middleware/requestid"
)

// @title Mentor Roster API
// @version 0.1.0
// @description Term calendar, session ledger and roster planning
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Roster.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, roster cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Roster.CacheTTL, logr, true)
		}
	}

	validate := validator.New()

	termRepo := repository.NewTermRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	calendarSvc := service.NewCalendarService(time.Weekday(cfg.Roster.SessionWeekday), logr)
	termSvc := service.NewTermService(termRepo, cacheSvc, validate, logr)
	ledgerSvc := service.NewLedgerService(sessionRepo, cacheSvc, metricsSvc, validate, logr)
	rosterSvc := service.NewRosterService(chapterRepo, assignmentRepo, sessionRepo, calendarSvc, cacheSvc, metricsSvc, cfg.Roster.CacheTTL, logr)

	termHandler := handler.NewTermHandler(termSvc, calendarSvc)
	sessionHandler := handler.NewSessionHandler(ledgerSvc, termSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc, termSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/terms", termHandler.List)
		api.GET("/terms/resolve", termHandler.Resolve)
		api.GET("/terms/:id/session-dates", termHandler.SessionDates)

		api.GET("/chapters/:id/roster", rosterHandler.Roster)
		api.GET("/chapters/:id/unavailability", sessionHandler.Unavailability)
		api.POST("/chapters/:id/mentor-sessions", sessionHandler.BookMentorAvailability)

		api.POST("/mentor-sessions/:id/students", sessionHandler.BookStudent)
		api.POST("/mentor-sessions/:id/restore", sessionHandler.Restore)
		api.DELETE("/mentor-sessions/:id", sessionHandler.Remove)

		api.DELETE("/attendances/:id", sessionHandler.Cancel)
		api.PUT("/attendances/:id/report", sessionHandler.SubmitReport)
		api.POST("/attendances/:id/sign-off", sessionHandler.SignOff)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
