package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/amankumarsingh77/veda-gateway/internal/config"
	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/amankumarsingh77/veda-gateway/internal/generation/repository"
	generationUsecase "github.com/amankumarsingh77/veda-gateway/internal/generation/usecase"
	"github.com/amankumarsingh77/veda-gateway/internal/metrics"
	remoteUsecase "github.com/amankumarsingh77/veda-gateway/internal/remote/usecase"
	"github.com/amankumarsingh77/veda-gateway/internal/worker"
	"github.com/amankumarsingh77/veda-gateway/pkg/db/aws"
	"github.com/amankumarsingh77/veda-gateway/pkg/db/postgres"
	clientRedis "github.com/amankumarsingh77/veda-gateway/pkg/db/redis"
	"github.com/amankumarsingh77/veda-gateway/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configFile := flag.String("config", "config.yml", "path to the config file")
	flag.Parse()

	cfgFile, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	if cfg.Queue.Driver != "redis" || cfg.Store.Driver == "memory" {
		appLogger.Fatalf("standalone worker needs queue.driver redis and a shared store, got queue=%s store=%s", cfg.Queue.Driver, cfg.Store.Driver)
	}
	if cfg.Remote.URL == "" {
		appLogger.Fatal("standalone worker needs remote.url")
	}

	var psqlDB *sqlx.DB
	if cfg.Store.Driver == "postgres" {
		psqlDB, err = postgres.NewPsqlDB(cfg)
		if err != nil {
			appLogger.Fatalf("could not connect to db: %s", err)
		}
		appLogger.Infof("db connected, status: %#v", psqlDB.Stats())
		defer psqlDB.Close()
	}

	redisClient, err := clientRedis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	appLogger.Infof("redis connected")
	defer redisClient.Close()

	repo, err := repository.NewRepository(cfg, psqlDB, redisClient)
	if err != nil {
		appLogger.Fatalf("job store: %s", err)
	}
	queue, err := repository.NewQueue(cfg, redisClient)
	if err != nil {
		appLogger.Fatalf("job queue: %s", err)
	}

	var storage generation.StorageRepository
	if cfg.S3.Enabled {
		awsClient, presignClient, err := aws.NewS3Client(context.Background(), cfg.S3)
		if err != nil {
			appLogger.Fatalf("could not connect to s3: %s", err)
		}
		storage = repository.NewAwsRepository(awsClient, presignClient, cfg.S3.OutputBucket)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	remoteUC := remoteUsecase.NewRemoteUseCase(cfg, nil, appLogger)
	if _, err := remoteUC.Connect(ctx, cfg.Remote.URL); err != nil {
		appLogger.Fatalf("could not connect to remote backend: %s", err)
	}

	generationUC := generationUsecase.NewGenerationUseCase(cfg, repo, queue, remoteUsecase.NewGenerator(remoteUC), storage, m, appLogger)

	if cfg.Worker.MetricsPort != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsServer := &http.Server{Addr: cfg.Worker.MetricsPort, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			appLogger.Infof("worker metrics listening on %s", cfg.Worker.MetricsPort)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Errorf("metrics server: %s", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	w := worker.NewWorker(cfg, appLogger, queue, generationUC)
	if err := w.Run(ctx); err != nil {
		appLogger.Errorf("worker stopped: %s", err)
	}
	appLogger.Info("Shutting down...")
}
