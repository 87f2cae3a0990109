package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const videoContentType = "video/mp4"

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
	bucket        string
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient, bucket string) generation.StorageRepository {
	return &awsRepository{
		client:        awsClient,
		preSignClient: preSignClient,
		bucket:        bucket,
	}
}

func (a *awsRepository) PutVideo(ctx context.Context, key, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open video: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat video: %w", err)
	}
	size := info.Size()
	contentType := videoContentType

	_, err = a.client.PutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &a.bucket,
			Key:           &key,
			ContentType:   &contentType,
			ContentLength: &size,
			Body:          file,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to upload file : %w", err)
	}
	return nil
}

func (a *awsRepository) PresignGet(ctx context.Context, key, fileName string, ttl time.Duration) (string, error) {
	disposition := fmt.Sprintf("attachment; filename=%q", fileName)
	contentType := videoContentType
	req, err := a.preSignClient.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket:                     &a.bucket,
			Key:                        &key,
			ResponseContentDisposition: &disposition,
			ResponseContentType:        &contentType,
		},
		s3.WithPresignExpires(ttl),
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign get object : %w", err)
	}
	return req.URL, nil
}
