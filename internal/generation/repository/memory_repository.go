package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
)

type memoryRepo struct {
	mu   sync.RWMutex
	jobs map[string]*models.GenerationJob
}

func NewMemoryRepo() generation.Repository {
	return &memoryRepo{
		jobs: make(map[string]*models.GenerationJob),
	}
}

func (m *memoryRepo) Create(ctx context.Context, job *models.GenerationJob) (*models.GenerationJob, error) {
	stored := *job
	m.mu.Lock()
	m.jobs[job.JobID] = &stored
	m.mu.Unlock()
	out := stored
	return &out, nil
}

// GetByID returns a copy so callers never race with workers updating the job.
func (m *memoryRepo) GetByID(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, generation.ErrJobNotFound
	}
	out := *job
	return &out, nil
}

func (m *memoryRepo) Update(ctx context.Context, jobID string, update models.JobUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil
	}
	update.Apply(job)
	return nil
}

func (m *memoryRepo) List(ctx context.Context, pagination *utils.Pagination) (*models.JobList, error) {
	m.mu.RLock()
	all := make([]*models.GenerationJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		j := *job
		all = append(all, &j)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, k int) bool {
		if all[i].CreatedAt.Equal(all[k].CreatedAt) {
			return all[i].JobID < all[k].JobID
		}
		return all[i].CreatedAt.After(all[k].CreatedAt)
	})

	total := len(all)
	start := pagination.GetOffset()
	if start > total {
		start = total
	}
	end := start + pagination.GetLimit()
	if end > total {
		end = total
	}
	return &models.JobList{
		Jobs:       all[start:end],
		TotalCount: total,
		TotalPages: utils.GetTotalPages(total, pagination.GetSize()),
		Page:       pagination.GetPage(),
		PageSize:   pagination.GetSize(),
		HasMore:    utils.GetHasMore(pagination.GetPage(), total, pagination.GetSize()),
	}, nil
}
