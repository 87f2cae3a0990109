package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amankumarsingh77/veda-gateway/internal/config"
	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/amankumarsingh77/veda-gateway/internal/metrics"
	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/pkg/logger"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

const (
	defaultStyle   = "cinematic"
	jobIDLength    = 8
	maxRandomSeed  = 1 << 31
	maxIDAttempts  = 5
	videoKeyPrefix = "videos/"
)

type generationUC struct {
	cfg       *config.Config
	repo      generation.Repository
	queue     generation.Queue
	generator generation.Generator
	storage   generation.StorageRepository
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewGenerationUseCase wires the job table, queue and generator together.
// storage and m may be nil.
func NewGenerationUseCase(
	cfg *config.Config,
	repo generation.Repository,
	queue generation.Queue,
	generator generation.Generator,
	storage generation.StorageRepository,
	m *metrics.Metrics,
	log logger.Logger,
) generation.UseCase {
	return &generationUC{
		cfg:       cfg,
		repo:      repo,
		queue:     queue,
		generator: generator,
		storage:   storage,
		metrics:   m,
		logger:    log,
	}
}

func (g *generationUC) Submit(ctx context.Context, input *models.GenerateRequest) (*models.GenerationJob, error) {
	if input == nil {
		return nil, fmt.Errorf("invalid input: input is nil")
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		g.logger.Errorf("Submit - ValidateStruct error: %v", err)
		return nil, err
	}

	jobID, err := g.newJobID(ctx)
	if err != nil {
		return nil, err
	}
	style := strings.ToLower(strings.TrimSpace(input.Style))
	if style == "" {
		style = defaultStyle
	}
	now := time.Now()
	job := &models.GenerationJob{
		JobID:     jobID,
		Prompt:    input.Prompt,
		Style:     style,
		Seed:      input.Seed,
		Upscale:   input.Upscale,
		NumFrames: input.NumFrames,
		Status:    models.JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job, err = g.repo.Create(ctx, job)
	if err != nil {
		g.logger.Errorf("Submit - Create error: %v", err)
		return nil, pkgerrors.Wrap(err, "generationUC.Submit.Create")
	}

	if err = g.queue.Enqueue(ctx, job.JobID); err != nil {
		g.logger.Errorf("Submit - Enqueue error: %v", err)
		msg := err.Error()
		failed := models.JobStatusFailed
		if uerr := g.repo.Update(ctx, job.JobID, models.JobUpdate{Status: &failed, Error: &msg}); uerr != nil {
			g.logger.Errorf("Submit - marking job %s failed: %v", job.JobID, uerr)
		}
		if errors.Is(err, generation.ErrQueueFull) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(err, "generationUC.Submit.Enqueue")
	}

	g.metrics.JobSubmitted()
	g.logger.Infof("Job %s submitted: %s...", job.JobID, truncate(job.Prompt, 50))
	return job, nil
}

func (g *generationUC) newJobID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := uuid.New().String()[:jobIDLength]
		_, err := g.repo.GetByID(ctx, id)
		if errors.Is(err, generation.ErrJobNotFound) {
			return id, nil
		}
		if err != nil {
			return "", pkgerrors.Wrap(err, "generationUC.newJobID")
		}
	}
	return "", fmt.Errorf("could not allocate a unique job id")
}

func (g *generationUC) GetJob(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	job, err := g.repo.GetByID(ctx, jobID)
	if err != nil {
		if !errors.Is(err, generation.ErrJobNotFound) {
			g.logger.Errorf("GetJob - failed to fetch job %s: %v", jobID, err)
		}
		return nil, err
	}
	return job, nil
}

func (g *generationUC) ListJobs(ctx context.Context, pagination *utils.Pagination) (*models.JobList, error) {
	if pagination == nil {
		pagination = &utils.Pagination{Page: 1, Size: 10}
	}
	pagination.Normalize()
	jobs, err := g.repo.List(ctx, pagination)
	if err != nil {
		g.logger.Errorf("ListJobs - failed to list jobs: %v", err)
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (g *generationUC) ResolveDownload(ctx context.Context, jobID string) (*generation.Download, error) {
	job, err := g.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusCompleted {
		return nil, &generation.NotCompletedError{JobID: job.JobID, Status: job.Status}
	}

	fileName := fmt.Sprintf("veda_%s.mp4", job.JobID)
	if job.ResultKey != "" && g.storage != nil {
		ttl := time.Duration(g.cfg.S3.PresignTTL) * time.Second
		url, err := g.storage.PresignGet(ctx, job.ResultKey, fileName, ttl)
		if err != nil {
			g.logger.Errorf("ResolveDownload - PresignGet error: %v", err)
			return nil, pkgerrors.Wrap(err, "generationUC.ResolveDownload.PresignGet")
		}
		return &generation.Download{FileName: fileName, RedirectURL: url}, nil
	}

	if job.ResultPath == "" {
		return nil, generation.ErrVideoNotFound
	}
	if _, err := os.Stat(job.ResultPath); err != nil {
		return nil, generation.ErrVideoNotFound
	}
	return &generation.Download{FileName: fileName, LocalPath: job.ResultPath}, nil
}

func (g *generationUC) Process(ctx context.Context, jobID string) error {
	job, err := g.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, generation.ErrJobNotFound) {
			g.logger.Warnf("Process - job %s vanished before it could run", jobID)
			return nil
		}
		return fmt.Errorf("failed to load job %s: %w", jobID, err)
	}
	if job.Status != models.JobStatusQueued {
		g.logger.Warnf("Process - job %s is %s, skipping", jobID, job.Status)
		return nil
	}

	seed := randomSeed()
	if job.Seed != nil {
		seed = *job.Seed
	}
	running := models.JobStatusRunning
	if err = g.repo.Update(ctx, jobID, models.JobUpdate{Status: &running, Seed: &seed}); err != nil {
		return fmt.Errorf("failed to mark job %s running: %w", jobID, err)
	}
	g.metrics.JobStarted()
	start := time.Now()

	resultPath, genErr := g.generate(ctx, job, seed)
	duration := models.RoundDuration(time.Since(start))

	// the job must be finalised even when the worker context was cancelled
	finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if genErr != nil {
		failed := models.JobStatusFailed
		msg := genErr.Error()
		g.metrics.JobFinished(failed, duration)
		g.logger.Errorf("Job %s failed: %v", jobID, genErr)
		return g.repo.Update(finalCtx, jobID, models.JobUpdate{
			Status:          &failed,
			Error:           &msg,
			DurationSeconds: &duration,
		})
	}

	update := models.JobUpdate{
		ResultPath:      &resultPath,
		DurationSeconds: &duration,
	}
	if g.storage != nil {
		key := videoKeyPrefix + jobID + ".mp4"
		if err := g.storage.PutVideo(finalCtx, key, resultPath); err != nil {
			g.logger.Warnf("Job %s: upload to object storage failed, serving local file: %v", jobID, err)
		} else {
			update.ResultKey = &key
		}
	}
	completed := models.JobStatusCompleted
	update.Status = &completed
	g.metrics.JobFinished(completed, duration)
	g.logger.Infof("Job %s completed in %.1fs", jobID, duration)
	return g.repo.Update(finalCtx, jobID, update)
}

func (g *generationUC) generate(ctx context.Context, job *models.GenerationJob, seed int64) (string, error) {
	if g.cfg.Worker.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(g.cfg.Worker.JobTimeout)*time.Second)
		defer cancel()
	}

	if err := os.MkdirAll(g.cfg.Outputs.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	frames := g.cfg.Remote.DefaultFrames
	if job.NumFrames != nil {
		frames = *job.NumFrames
	}
	req := generation.GenerationRequest{
		JobID:      job.JobID,
		Prompt:     job.Prompt,
		Style:      job.Style,
		Frames:     frames,
		Seed:       seed,
		Upscale:    job.Upscale,
		OutputPath: filepath.Join(g.cfg.Outputs.Dir, job.JobID+".mp4"),
	}
	return g.generator.Generate(ctx, req)
}

func randomSeed() int64 {
	return rand.Int64N(maxRandomSeed)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
