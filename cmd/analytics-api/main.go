package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/registrar-hub/registrar-analytics-api/api/swagger"
	"github.com/registrar-hub/registrar-analytics-api/internal/handler"
	internalmiddleware "github.com/registrar-hub/registrar-analytics-api/internal/middleware"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	"github.com/registrar-hub/registrar-analytics-api/internal/repository"
	"github.com/registrar-hub/registrar-analytics-api/internal/service"
	"github.com/registrar-hub/registrar-analytics-api/pkg/cache"
	"github.com/registrar-hub/registrar-analytics-api/pkg/config"
	"github.com/registrar-hub/registrar-analytics-api/pkg/database"
	"github.com/registrar-hub/registrar-analytics-api/pkg/logger"
	corsmiddleware "github.com/registrar-hub/registrar-analytics-api/pkg/middleware/cors"
	reqidmiddleware "github.com/registrar-hub/registrar-analytics-api/pkg/middleware/requestid"
)

// @title Registrar Analytics API
// @version 1.0.0
// @description Academic analytics and progression engine over dual-schema student records
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("postgres connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, serving without cache", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, redisClient != nil)

	snapshotRepo := repository.NewSnapshotRepository(db)
	snapshotSvc := service.NewSnapshotService(service.SnapshotServiceParams{
		Source:         snapshotRepo,
		Cache:          cacheSvc,
		Metrics:        metricsSvc,
		Logger:         logr,
		TTL:            cfg.Snapshot.TTL,
		RebuildWorkers: cfg.Snapshot.RebuildWorkers,
		RebuildRetries: cfg.Snapshot.RebuildRetries,
	})

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snapshotSvc.Start(rootCtx)
	defer snapshotSvc.Stop()

	analyticsSvc := service.NewAnalyticsService(snapshotSvc, cacheSvc, metricsSvc, logr, cfg.Reports.CacheTTL)
	reportSvc := service.NewReportService(analyticsSvc, logr, cfg.Reports.ExportEnabled)

	defaultVariant := models.SchemaVariant(cfg.Snapshot.DefaultVariant)
	if !defaultVariant.Valid() {
		defaultVariant = models.VariantNew
	}

	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, defaultVariant)
	progressionHandler := handler.NewProgressionHandler(analyticsSvc, defaultVariant)
	reportHandler := handler.NewReportHandler(reportSvc, defaultVariant)
	snapshotHandler := handler.NewSnapshotHandler(snapshotSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.Identity(cfg.Identity.Secret, cfg.Identity.Audience))
	{
		api.GET("/tables/:name", analyticsHandler.Table)
		api.GET("/students/:id/progression", progressionHandler.Student)
		api.GET("/reports/:name/export", reportHandler.Export)

		staff := api.Group("")
		staff.Use(internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleProfessor))
		{
			staff.POST("/progression/batch", progressionHandler.Batch)
			staff.GET("/snapshots", snapshotHandler.Status)
			staff.GET("/system/metrics", metricsHandler.System)
		}

		admin := api.Group("")
		admin.Use(internalmiddleware.RequireRoles(models.RoleAdmin))
		{
			admin.POST("/snapshots/rebuild", snapshotHandler.Rebuild)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "default_variant", string(defaultVariant))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
