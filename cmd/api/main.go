package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/cristianvalmo/buscacursos-api/api/swagger"
	"github.com/cristianvalmo/buscacursos-api/internal/cache"
	"github.com/cristianvalmo/buscacursos-api/internal/dto"
	"github.com/cristianvalmo/buscacursos-api/internal/handler"
	"github.com/cristianvalmo/buscacursos-api/internal/middleware"
	"github.com/cristianvalmo/buscacursos-api/internal/service"
	"github.com/cristianvalmo/buscacursos-api/internal/upstream"
	pkgcache "github.com/cristianvalmo/buscacursos-api/pkg/cache"
	"github.com/cristianvalmo/buscacursos-api/pkg/config"
	"github.com/cristianvalmo/buscacursos-api/pkg/logger"
	corsmiddleware "github.com/cristianvalmo/buscacursos-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cristianvalmo/buscacursos-api/pkg/middleware/requestid"
)

const version = "1.0.0"

// @title BuscaCursos API
// @version 1.0.0
// @description RESTful API for course-section data scraped from the BuscaCursos UC catalog
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

	if err := dto.RegisterValidators(); err != nil {
		logr.Sugar().Fatalw("failed to register validators", "error", err)
	}

	store, err := buildStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init cache store", "backend", cfg.Cache.Backend, "error", err)
	}

	fetcher, err := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, cfg.Upstream.RateLimit)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upstream client", "error", err)
	}

	metricsSvc := service.NewMetricsService()
	courseSvc := service.NewCourseService(service.CourseServiceParams{
		Fetcher: fetcher,
		Store:   store,
		Metrics: metricsSvc,
		Logger:  logr,
		Config: service.CourseServiceConfig{
			CacheTTL:     cfg.Cache.TTL,
			MaxBatchSize: cfg.Batch.MaxSize,
			CacheBackend: cfg.Cache.Backend,
		},
	})

	courseHandler := handler.NewCourseHandler(courseSvc, cfg.Upstream.DefaultTerm)
	healthHandler := handler.NewHealthHandler(courseSvc, version)
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

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/health", healthHandler.Health)
		api.POST("/cache/clear", healthHandler.ClearCache)
		api.GET("/semesters", courseHandler.Semesters)

		courses := api.Group("/courses")
		{
			courses.GET("/search", courseHandler.Search)
			courses.GET("/info/:code", courseHandler.Info)
			courses.POST("/batch", courseHandler.Batch)
			courses.GET("/vacancies", courseHandler.Vacancies)
		}
	}

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting",
		"addr", addr,
		"env", cfg.Env,
		"cache_backend", cfg.Cache.Backend,
		"cache_ttl", cfg.Cache.TTL,
		"upstream", cfg.Upstream.BaseURL,
	)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func buildStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "redis":
		client, err := pkgcache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisStore(client), nil
	default:
		return cache.NewMemoryStore(), nil
	}
}
