package generation

import (
	"context"
	"time"
)

// StorageRepository keeps finished videos in object storage.
type StorageRepository interface {
	PutVideo(ctx context.Context, key, localPath string) error
	PresignGet(ctx context.Context, key, fileName string, ttl time.Duration) (string, error)
}
