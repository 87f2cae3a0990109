package worker

import (
	"context"
	"time"

	"github.com/amankumarsingh77/veda-gateway/internal/config"
	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/amankumarsingh77/veda-gateway/pkg/logger"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const (
	checkInterval = 10 * time.Second
	retryDelay    = 2 * time.Second
)

// CPUCheck reports whether the host can take another job, and the current usage.
type CPUCheck func(maxCPUUsage float64) (bool, float64)

type Worker struct {
	cfg          *config.Config
	logger       logger.Logger
	queue        generation.Queue
	generationUC generation.UseCase
	checkCPU     CPUCheck
}

func NewWorker(cfg *config.Config, logger logger.Logger, queue generation.Queue, generationUC generation.UseCase) *Worker {
	return &Worker{
		cfg:          cfg,
		logger:       logger,
		queue:        queue,
		generationUC: generationUC,
		checkCPU:     utils.CheckCPUUsage,
	}
}

// Run starts cfg.Worker.WorkerCount consumers and blocks until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	count := w.cfg.Worker.WorkerCount
	if count <= 0 {
		count = 1
	}
	w.logger.Infof("Starting %d generation workers", count)

	g, ctx := errgroup.WithContext(ctx)
	for i := range count {
		id := i
		g.Go(func() error {
			w.consume(ctx, id)
			return nil
		})
	}
	err := g.Wait()
	w.logger.Info("Generation workers stopped")
	return err
}

func (w *Worker) consume(ctx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			return
		}
		if canAcceptJob, usage := w.checkCPU(w.cfg.Worker.MaxCPUUsage); !canAcceptJob {
			w.logger.Infof("worker %d: CPU usage %.2f%% too high, waiting...", id, usage)
			if !sleep(ctx, checkInterval) {
				return
			}
			continue
		}

		jobID, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Errorf("worker %d: failed to fetch job: %v", id, err)
			if !sleep(ctx, retryDelay) {
				return
			}
			continue
		}

		w.logger.Infof("worker %d: processing job %s", id, jobID)
		if err := w.generationUC.Process(ctx, jobID); err != nil {
			w.logger.Errorf("worker %d: job %s: %v", id, jobID, err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
