package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/go-redis/redis/v8"
)

const dequeuePollTimeout = 5 * time.Second

type redisQueue struct {
	redisClient *redis.Client
	key         string
}

func NewRedisQueue(redisClient *redis.Client, key string) generation.Queue {
	return &redisQueue{
		redisClient: redisClient,
		key:         key,
	}
}

func (q *redisQueue) Enqueue(ctx context.Context, jobID string) error {
	if err := q.redisClient.LPush(ctx, q.key, jobID).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

func (q *redisQueue) Dequeue(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		res, err := q.redisClient.BRPop(ctx, dequeuePollTimeout, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("failed to dequeue job: %w", err)
		}
		// BRPOP replies with [key, value]
		return res[1], nil
	}
}
