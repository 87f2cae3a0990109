package main

import (
	"context"
	"flag"
	"log"

	"github.com/amankumarsingh77/veda-gateway/internal/config"
	"github.com/amankumarsingh77/veda-gateway/internal/server"
	"github.com/amankumarsingh77/veda-gateway/pkg/db/aws"
	"github.com/amankumarsingh77/veda-gateway/pkg/db/postgres"
	"github.com/amankumarsingh77/veda-gateway/pkg/db/redis"
	"github.com/amankumarsingh77/veda-gateway/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	goredis "github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
)

func main() {
	log.Println("Starting api server")
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
	appLogger.Infof("Store: %s, Queue: %s, Embedded worker: %t", cfg.Store.Driver, cfg.Queue.Driver, cfg.Worker.Embedded)

	var psqlDB *sqlx.DB
	if cfg.Store.Driver == "postgres" {
		psqlDB, err = postgres.NewPsqlDB(cfg)
		if err != nil {
			appLogger.Fatalf("could not connect to db: %s", err)
		}
		appLogger.Infof("db connected, status: %#v", psqlDB.Stats())
		defer psqlDB.Close()
	}

	var redisClient *goredis.Client
	if cfg.Store.Driver == "redis" || cfg.Queue.Driver == "redis" {
		redisClient, err = redis.NewRedisClient(cfg)
		if err != nil {
			appLogger.Fatalf("could not connect to redis: %s", err)
		}
		appLogger.Infof("redis connected")
		defer redisClient.Close()
	}

	var (
		s3Client      *s3.Client
		presignClient *s3.PresignClient
	)
	if cfg.S3.Enabled {
		s3Client, presignClient, err = aws.NewS3Client(context.Background(), cfg.S3)
		if err != nil {
			appLogger.Fatalf("could not connect to s3: %s", err)
		}
	}

	s := server.NewServer(cfg, psqlDB, redisClient, s3Client, presignClient, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Errorf("server stopped: %s", err)
	}
}
