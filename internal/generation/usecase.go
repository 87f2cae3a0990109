package generation

import (
	"context"

	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
)

type UseCase interface {
	Submit(ctx context.Context, input *models.GenerateRequest) (*models.GenerationJob, error)
	GetJob(ctx context.Context, jobID string) (*models.GenerationJob, error)
	ListJobs(ctx context.Context, pagination *utils.Pagination) (*models.JobList, error)
	ResolveDownload(ctx context.Context, jobID string) (*Download, error)

	// Process runs one queued job to completion. Called by workers.
	Process(ctx context.Context, jobID string) error
}

// Download tells the handler where a finished video can be fetched from.
// Exactly one of LocalPath and RedirectURL is set.
type Download struct {
	FileName    string
	LocalPath   string
	RedirectURL string
}
