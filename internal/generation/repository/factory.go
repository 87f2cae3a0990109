package repository

import (
	"fmt"
	"time"

	"github.com/amankumarsingh77/veda-gateway/internal/config"
	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
)

// NewRepository picks the job store named by cfg.Store.Driver.
func NewRepository(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client) (generation.Repository, error) {
	switch cfg.Store.Driver {
	case "memory":
		return NewMemoryRepo(), nil
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("redis store selected but redis is not connected")
		}
		return NewGenerationRedisRepo(redisClient, cfg.Redis.KeyPrefix, time.Duration(cfg.Store.JobTTL)*time.Second), nil
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres store selected but postgres is not connected")
		}
		return NewGenerationPgRepo(db), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// NewQueue picks the job queue named by cfg.Queue.Driver.
func NewQueue(cfg *config.Config, redisClient *redis.Client) (generation.Queue, error) {
	switch cfg.Queue.Driver {
	case "memory":
		return NewMemoryQueue(cfg.Queue.Capacity), nil
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("redis queue selected but redis is not connected")
		}
		return NewRedisQueue(redisClient, cfg.Queue.Key), nil
	}
	return nil, fmt.Errorf("unknown queue driver %q", cfg.Queue.Driver)
}
