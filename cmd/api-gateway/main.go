package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/schedule-sensei/api/swagger"
	internalhandler "github.com/noah-isme/schedule-sensei/internal/handler"
	internalmiddleware "github.com/noah-isme/schedule-sensei/internal/middleware"
	"github.com/noah-isme/schedule-sensei/internal/repository"
	"github.com/noah-isme/schedule-sensei/internal/service"
	"github.com/noah-isme/schedule-sensei/pkg/cache"
	"github.com/noah-isme/schedule-sensei/pkg/config"
	"github.com/noah-isme/schedule-sensei/pkg/database"
	"github.com/noah-isme/schedule-sensei/pkg/logger"
	corsmiddleware "github.com/noah-isme/schedule-sensei/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/schedule-sensei/pkg/middleware/requestid"
)

// @title Schedule Sensei API
// @version 0.1.0
// @description SAT-based course enrollment scheduler
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	caseSvc, err := service.NewTestCaseService(cfg.Catalog.TestsConfigPath, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to load test case registry", "error", err)
	}

	var audit *repository.SolveAuditRepository
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to initialise audit database", "error", err)
		}
		defer db.Close()
		audit = repository.NewSolveAuditRepository(db)
	}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		if client, err := cache.NewRedis(cfg.Redis); err != nil {
			logr.Sugar().Warnw("diagnostic cache disabled", "error", err)
		} else {
			defer client.Close()
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cacheRepo != nil)

	validate := validator.New()
	svcCfg := service.SolveServiceConfig{DataDir: cfg.Catalog.DataDir}
	var solveSvc *service.SolveService
	if audit != nil {
		solveSvc = service.NewSolveService(caseSvc, nil, metricsSvc, cacheSvc, audit, validate, logr, svcCfg)
	} else {
		solveSvc = service.NewSolveService(caseSvc, nil, metricsSvc, cacheSvc, nil, validate, logr, svcCfg)
	}

	downstream := service.NewDownstreamNotifier(cfg.Downstream, logr)
	solveHandler := internalhandler.NewSolveHandler(solveSvc, caseSvc, downstream, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/parse-test", solveHandler.ParseTest)
	api.GET("/test-cases", solveHandler.TestCases)

	if audit != nil {
		auditHandler := internalhandler.NewAuditHandler(audit)
		api.GET("/solve-audit/:testCase", auditHandler.Recent)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
