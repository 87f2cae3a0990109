package repository

import (
	"context"

	"github.com/amankumarsingh77/veda-gateway/internal/generation"
)

type memoryQueue struct {
	jobs chan string
}

func NewMemoryQueue(capacity int) generation.Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &memoryQueue{jobs: make(chan string, capacity)}
}

func (q *memoryQueue) Enqueue(ctx context.Context, jobID string) error {
	select {
	case q.jobs <- jobID:
		return nil
	default:
		return generation.ErrQueueFull
	}
}

func (q *memoryQueue) Dequeue(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case jobID := <-q.jobs:
		return jobID, nil
	}
}
