package generation

import (
	"context"

	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
)

type Repository interface {
	Create(ctx context.Context, job *models.GenerationJob) (*models.GenerationJob, error)
	GetByID(ctx context.Context, jobID string) (*models.GenerationJob, error)
	// Update applies the change to an existing job. Updating an unknown job is a no-op.
	Update(ctx context.Context, jobID string, update models.JobUpdate) error
	List(ctx context.Context, pagination *utils.Pagination) (*models.JobList, error)
}
