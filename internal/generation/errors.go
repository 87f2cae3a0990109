package generation

import (
	"errors"
	"fmt"

	"github.com/amankumarsingh77/veda-gateway/internal/models"
)

var (
	ErrJobNotFound   = errors.New("job not found")
	ErrJobNotReady   = errors.New("job is not completed")
	ErrVideoNotFound = errors.New("video file not found")
	ErrQueueFull     = errors.New("generation queue is full")
)

// NotCompletedError is returned when a download is requested for an unfinished job.
type NotCompletedError struct {
	JobID  string
	Status models.JobStatus
}

func (e *NotCompletedError) Error() string {
	return fmt.Sprintf("Job %s is not completed (status: %s)", e.JobID, e.Status)
}

func (e *NotCompletedError) Unwrap() error {
	return ErrJobNotReady
}
