package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/go-redis/redis/v8"
)

const (
	jobDataField     = "job_data"
	jobStatusField   = "status"
	maxUpdateRetries = 5
)

type generationRedisRepo struct {
	redisClient *redis.Client
	keyPrefix   string
	indexKey    string
	ttl         time.Duration
}

// NewGenerationRedisRepo stores each job in a hash under keyPrefix+jobID and keeps
// an index sorted by creation time. A zero ttl keeps jobs forever.
func NewGenerationRedisRepo(redisClient *redis.Client, keyPrefix string, ttl time.Duration) generation.Repository {
	return &generationRedisRepo{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		indexKey:    strings.TrimSuffix(keyPrefix, ":") + ":index",
		ttl:         ttl,
	}
}

func (r *generationRedisRepo) jobKey(jobID string) string {
	return r.keyPrefix + jobID
}

func (r *generationRedisRepo) Create(ctx context.Context, job *models.GenerationJob) (*models.GenerationJob, error) {
	jobData, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}
	key := r.jobKey(job.JobID)

	pipe := r.redisClient.TxPipeline()
	pipe.HSet(ctx, key, jobDataField, string(jobData), jobStatusField, string(job.Status))
	pipe.ZAdd(ctx, r.indexKey, &redis.Z{
		Score:  float64(job.CreatedAt.UnixNano()),
		Member: job.JobID,
	})
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err = pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to store job: %w", err)
	}
	out := *job
	return &out, nil
}

func (r *generationRedisRepo) GetByID(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	jobData, err := r.redisClient.HGet(ctx, r.jobKey(jobID), jobDataField).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, generation.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job data: %w", err)
	}
	job := &models.GenerationJob{}
	if err = json.Unmarshal([]byte(jobData), job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job data: %w", err)
	}
	return job, nil
}

func (r *generationRedisRepo) Update(ctx context.Context, jobID string, update models.JobUpdate) error {
	key := r.jobKey(jobID)
	txf := func(tx *redis.Tx) error {
		jobData, err := tx.HGet(ctx, key, jobDataField).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return fmt.Errorf("failed to get job data: %w", err)
		}
		var job models.GenerationJob
		if err = json.Unmarshal([]byte(jobData), &job); err != nil {
			return fmt.Errorf("failed to unmarshal job data: %w", err)
		}
		update.Apply(&job)
		updatedJobData, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("failed to marshal updated job: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, jobDataField, string(updatedJobData), jobStatusField, string(job.Status))
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.redisClient.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("failed to update job: %w", err)
	}
	return fmt.Errorf("failed to update job %s: too many concurrent writers", jobID)
}

func (r *generationRedisRepo) List(ctx context.Context, pagination *utils.Pagination) (*models.JobList, error) {
	totalCount, err := r.redisClient.ZCard(ctx, r.indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	list := &models.JobList{
		Jobs:       make([]*models.GenerationJob, 0),
		TotalCount: int(totalCount),
		TotalPages: utils.GetTotalPages(int(totalCount), pagination.GetSize()),
		Page:       pagination.GetPage(),
		PageSize:   pagination.GetSize(),
		HasMore:    utils.GetHasMore(pagination.GetPage(), int(totalCount), pagination.GetSize()),
	}
	if totalCount == 0 {
		return list, nil
	}

	start := int64(pagination.GetOffset())
	stop := start + int64(pagination.GetLimit()) - 1
	ids, err := r.redisClient.ZRevRange(ctx, r.indexKey, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	for _, id := range ids {
		job, err := r.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, generation.ErrJobNotFound) {
				// hash expired, drop the stale index entry
				r.redisClient.ZRem(ctx, r.indexKey, id)
				continue
			}
			return nil, err
		}
		list.Jobs = append(list.Jobs, job)
	}
	return list, nil
}
