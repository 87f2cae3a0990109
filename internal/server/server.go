package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amankumarsingh77/veda-gateway/internal/config"
	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/amankumarsingh77/veda-gateway/internal/remote"
	"github.com/amankumarsingh77/veda-gateway/internal/worker"
	"github.com/amankumarsingh77/veda-gateway/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	maxHeaderBytes = 1 << 20
	ctxTimeout     = 5
)

type Server struct {
	echo          *echo.Echo
	cfg           *config.Config
	db            *sqlx.DB
	redisClient   *redis.Client
	s3Client      *s3.Client
	preSignClient *s3.PresignClient
	registry      *prometheus.Registry
	logger        logger.Logger

	generationUC generation.UseCase
	queue        generation.Queue
	remoteUC     remote.UseCase
}

// NewServer builds the API server. db, redisClient and the s3 clients may be nil
// when the configured drivers do not need them.
func NewServer(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, s3Client *s3.Client, preSignClient *s3.PresignClient, logger logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	return &Server{
		echo:          e,
		cfg:           cfg,
		db:            db,
		redisClient:   redisClient,
		s3Client:      s3Client,
		preSignClient: preSignClient,
		registry:      prometheus.NewRegistry(),
		logger:        logger,
	}
}

func (s *Server) Run() error {
	if err := s.MapHandlers(s.echo); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	if s.cfg.Remote.URL != "" {
		if _, err := s.remoteUC.Connect(ctx, s.cfg.Remote.URL); err != nil {
			s.logger.Warnf("could not connect to remote backend %s: %v", s.cfg.Remote.URL, err)
		}
	}

	workerDone := make(chan struct{})
	if s.cfg.Worker.Embedded {
		w := worker.NewWorker(s.cfg, s.logger, s.queue, s.generationUC)
		go func() {
			defer close(workerDone)
			if err := w.Run(ctx); err != nil {
				s.logger.Errorf("worker pool stopped: %v", err)
			}
		}()
	} else {
		close(workerDone)
	}

	server := &http.Server{
		Addr:           s.cfg.Server.Port,
		ReadTimeout:    time.Second * time.Duration(s.cfg.Server.ReadTimeout),
		IdleTimeout:    time.Second * time.Duration(s.cfg.Server.IdleTimeout),
		WriteTimeout:   time.Second * time.Duration(s.cfg.Server.WriteTimeout),
		MaxHeaderBytes: maxHeaderBytes,
	}
	go func() {
		s.logger.Infof("Server is listening on PORT: %s", s.cfg.Server.Port)
		if err := s.echo.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("error starting Server: ", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdown := context.WithTimeout(context.Background(), time.Second*ctxTimeout)
	defer shutdown()
	s.logger.Infof("shutting down server")
	err := s.echo.Shutdown(shutdownCtx)
	<-workerDone
	return err
}
