package server

import (
	"context"
	"net/http"
	"time"

	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	generationHttp "github.com/amankumarsingh77/veda-gateway/internal/generation/delivery/http"
	generationRepository "github.com/amankumarsingh77/veda-gateway/internal/generation/repository"
	generationUsecase "github.com/amankumarsingh77/veda-gateway/internal/generation/usecase"
	"github.com/amankumarsingh77/veda-gateway/internal/metrics"
	"github.com/amankumarsingh77/veda-gateway/internal/middleware"
	promptHttp "github.com/amankumarsingh77/veda-gateway/internal/prompt/delivery/http"
	remoteHttp "github.com/amankumarsingh77/veda-gateway/internal/remote/delivery/http"
	remoteUsecase "github.com/amankumarsingh77/veda-gateway/internal/remote/usecase"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const schemaTimeout = 10 * time.Second

var apiEndpoints = []string{
	"POST /api/generate",
	"GET /api/status/{job_id}",
	"GET /api/download/{job_id}",
	"GET /api/styles",
	"GET /api/jobs",
	"POST /api/enhance",
	"GET /api/ideas?category=",
	"GET /api/ideas/random",
	"GET /api/health",
	"GET /api/remote",
	"POST /api/remote/connect",
	"POST /api/remote/disconnect",
	"POST /api/remote/generate",
}

func (s *Server) MapHandlers(e *echo.Echo) error {
	if s.cfg.Store.Driver == "postgres" && s.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
		err := generationRepository.EnsureSchema(ctx, s.db)
		cancel()
		if err != nil {
			return err
		}
	}
	repo, err := generationRepository.NewRepository(s.cfg, s.db, s.redisClient)
	if err != nil {
		return err
	}
	queue, err := generationRepository.NewQueue(s.cfg, s.redisClient)
	if err != nil {
		return err
	}
	var storage generation.StorageRepository
	if s.cfg.S3.Enabled && s.s3Client != nil {
		storage = generationRepository.NewAwsRepository(s.s3Client, s.preSignClient, s.cfg.S3.OutputBucket)
	}

	s.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(s.registry)

	remoteUC := remoteUsecase.NewRemoteUseCase(s.cfg, nil, s.logger)
	generationUC := generationUsecase.NewGenerationUseCase(
		s.cfg,
		repo,
		queue,
		remoteUsecase.NewGenerator(remoteUC),
		storage,
		m,
		s.logger,
	)
	s.remoteUC = remoteUC
	s.generationUC = generationUC
	s.queue = queue

	generationHandlers := generationHttp.NewGenerationHandler(generationUC, s.logger)
	promptHandlers := promptHttp.NewPromptHandler()
	remoteHandlers := remoteHttp.NewRemoteHandler(s.cfg, remoteUC, s.logger)

	mw := middleware.NewMiddlewareManager(s.cfg, s.cfg.Server.AllowOrigins, s.logger)

	e.Use(echoMiddleware.RequestID())
	e.Use(mw.RequestLoggerMiddleware)
	e.Use(echoMiddleware.Recover())
	e.Use(mw.CORS())

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"name":      "VEDA API",
			"version":   s.cfg.Server.AppVersion,
			"docs":      "/docs",
			"endpoints": apiEndpoints,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.GET("/health", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})

	protected := api.Group("", mw.AuthJWTMiddleware())
	generationHttp.MapGenerationRoutes(protected, generationHandlers)
	promptHttp.MapPromptRoutes(protected, promptHandlers)
	remoteHttp.MapRemoteRoutes(protected.Group("/remote"), remoteHandlers)
	return nil
}
