package generation

import "context"

type GenerationRequest struct {
	JobID      string
	Prompt     string
	Style      string
	Frames     int
	Seed       int64
	Upscale    bool
	OutputPath string
}

// Generator produces a video for the request and returns its local path.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
