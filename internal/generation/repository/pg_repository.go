package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/jmoiron/sqlx"
)

type generationPgRepo struct {
	db *sqlx.DB
}

func NewGenerationPgRepo(db *sqlx.DB) generation.Repository {
	return &generationPgRepo{db: db}
}

// EnsureSchema creates the jobs table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, createJobsTableQuery); err != nil {
		return fmt.Errorf("failed to create generation_jobs table: %w", err)
	}
	return nil
}

func (r *generationPgRepo) Create(ctx context.Context, job *models.GenerationJob) (*models.GenerationJob, error) {
	created := &models.GenerationJob{}
	if err := r.db.QueryRowxContext(
		ctx,
		createJobQuery,
		job.JobID,
		job.Prompt,
		job.Style,
		job.Seed,
		job.Upscale,
		job.NumFrames,
		string(job.Status),
		job.CreatedAt,
	).StructScan(created); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return created, nil
}

func (r *generationPgRepo) GetByID(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	job := &models.GenerationJob{}
	if err := r.db.GetContext(ctx, job, getJobByIDQuery, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, generation.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (r *generationPgRepo) Update(ctx context.Context, jobID string, update models.JobUpdate) error {
	var status *string
	if update.Status != nil {
		s := string(*update.Status)
		status = &s
	}
	if _, err := r.db.ExecContext(
		ctx,
		updateJobQuery,
		status,
		update.Seed,
		update.ResultPath,
		update.ResultKey,
		update.Error,
		update.DurationSeconds,
		jobID,
	); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

func (r *generationPgRepo) List(ctx context.Context, pagination *utils.Pagination) (*models.JobList, error) {
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, getTotalJobsQuery); err != nil {
		return nil, fmt.Errorf("failed to get total jobs count: %w", err)
	}
	list := &models.JobList{
		Jobs:       make([]*models.GenerationJob, 0),
		TotalCount: totalCount,
		TotalPages: utils.GetTotalPages(totalCount, pagination.GetSize()),
		Page:       pagination.GetPage(),
		PageSize:   pagination.GetSize(),
		HasMore:    utils.GetHasMore(pagination.GetPage(), totalCount, pagination.GetSize()),
	}
	if totalCount == 0 {
		return list, nil
	}

	rows, err := r.db.QueryxContext(ctx, getJobsQuery, pagination.GetOffset(), pagination.GetLimit())
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		job := &models.GenerationJob{}
		if err = rows.StructScan(job); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		list.Jobs = append(list.Jobs, job)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return list, nil
}
