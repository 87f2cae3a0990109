package models

import (
	"math"
	"time"
)

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

type GenerationJob struct {
	JobID           string    `json:"job_id" db:"job_id" redis:"job_id"`
	Prompt          string    `json:"prompt" db:"prompt" redis:"prompt"`
	Style           string    `json:"style" db:"style" redis:"style"`
	Seed            *int64    `json:"seed,omitempty" db:"seed" redis:"seed"`
	Upscale         bool      `json:"upscale" db:"upscale" redis:"upscale"`
	NumFrames       *int      `json:"num_frames,omitempty" db:"num_frames" redis:"num_frames"`
	Status          JobStatus `json:"status" db:"status" redis:"status"`
	ResultPath      string    `json:"result_path,omitempty" db:"result_path" redis:"result_path"`
	ResultKey       string    `json:"result_key,omitempty" db:"result_key" redis:"result_key"`
	Error           string    `json:"error,omitempty" db:"error" redis:"error"`
	DurationSeconds float64   `json:"duration_seconds" db:"duration_seconds" redis:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at" db:"created_at" redis:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at" redis:"updated_at"`
}

// JobUpdate carries the fields a worker changes on a job. Nil fields are left untouched.
type JobUpdate struct {
	Status          *JobStatus
	Seed            *int64
	ResultPath      *string
	ResultKey       *string
	Error           *string
	DurationSeconds *float64
}

func (u JobUpdate) Apply(job *GenerationJob) {
	if u.Status != nil {
		job.Status = *u.Status
	}
	if u.Seed != nil {
		seed := *u.Seed
		job.Seed = &seed
	}
	if u.ResultPath != nil {
		job.ResultPath = *u.ResultPath
	}
	if u.ResultKey != nil {
		job.ResultKey = *u.ResultKey
	}
	if u.Error != nil {
		job.Error = *u.Error
	}
	if u.DurationSeconds != nil {
		job.DurationSeconds = *u.DurationSeconds
	}
	job.UpdatedAt = time.Now()
}

// RoundDuration rounds elapsed time to a tenth of a second.
func RoundDuration(d time.Duration) float64 {
	return math.Round(d.Seconds()*10) / 10
}

type GenerateRequest struct {
	Prompt    string `json:"prompt" validate:"required,notblank,lte=2000"`
	Style     string `json:"style" validate:"omitempty,lte=50"`
	Seed      *int64 `json:"seed" validate:"omitempty,gte=0"`
	Upscale   bool   `json:"upscale"`
	NumFrames *int   `json:"num_frames" validate:"omitempty,gte=1,lte=128"`
}

type JobResponse struct {
	JobID   string    `json:"job_id"`
	Status  JobStatus `json:"status"`
	Message string    `json:"message"`
}

type JobStatusResponse struct {
	JobID           string    `json:"job_id"`
	Status          JobStatus `json:"status"`
	Progress        *string   `json:"progress"`
	ResultPath      *string   `json:"result_path"`
	Error           *string   `json:"error"`
	DurationSeconds *float64  `json:"duration_seconds"`
}

func NewJobStatusResponse(job *GenerationJob) *JobStatusResponse {
	resp := &JobStatusResponse{
		JobID:  job.JobID,
		Status: job.Status,
	}
	if job.ResultPath != "" {
		path := job.ResultPath
		resp.ResultPath = &path
	}
	if job.Error != "" {
		msg := job.Error
		resp.Error = &msg
	}
	if job.DurationSeconds > 0 {
		d := job.DurationSeconds
		resp.DurationSeconds = &d
	}
	return resp
}

type StylesResponse struct {
	Styles []string `json:"styles"`
}

type JobList struct {
	Jobs       []*GenerationJob `json:"jobs"`
	TotalCount int              `json:"total_count"`
	TotalPages int              `json:"total_pages"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	HasMore    bool             `json:"has_more"`
}
