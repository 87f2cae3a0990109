package remote

import (
	"context"

	"github.com/amankumarsingh77/veda-gateway/internal/models"
)

type GenerateParams struct {
	Prompt  string
	Style   string
	Frames  int
	Seed    int64
	Upscale bool
}

type UseCase interface {
	Connect(ctx context.Context, rawURL string) (*models.RemoteState, error)
	Disconnect()
	State() *models.RemoteState
	IsConnected() bool
	// Generate runs one generation on the remote backend and stores the video at outputPath.
	Generate(ctx context.Context, params GenerateParams, outputPath string) (*models.GenerationResult, error)
}
