package usecase

import (
	"context"
	"fmt"

	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/amankumarsingh77/veda-gateway/internal/remote"
)

type remoteGenerator struct {
	remoteUC remote.UseCase
}

// NewGenerator lets queued jobs run on the connected remote backend.
func NewGenerator(remoteUC remote.UseCase) generation.Generator {
	return &remoteGenerator{remoteUC: remoteUC}
}

func (g *remoteGenerator) Generate(ctx context.Context, req generation.GenerationRequest) (string, error) {
	res, err := g.remoteUC.Generate(ctx, remote.GenerateParams{
		Prompt:  req.Prompt,
		Style:   req.Style,
		Frames:  req.Frames,
		Seed:    req.Seed,
		Upscale: req.Upscale,
	}, req.OutputPath)
	if err != nil {
		return "", err
	}
	if res.VideoPath == "" {
		return "", fmt.Errorf("%w: %s", remote.ErrNoVideo, res.Status)
	}
	return res.VideoPath, nil
}
