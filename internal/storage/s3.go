package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/eudaura/telehealth-api/internal/config"
)

// Presigner issues time-limited, write-once upload authorizations. Raw
// bytes never pass through the application layer.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
}

type s3Presigner struct {
	client *s3.PresignClient
	bucket string
	ttl    time.Duration
}

func NewS3Presigner(ctx context.Context, cfg config.StorageConfig) (Presigner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &s3Presigner{
		client: s3.NewPresignClient(s3.NewFromConfig(awsCfg)),
		bucket: cfg.Bucket,
		ttl:    time.Duration(cfg.PresignTTL) * time.Second,
	}, nil
}

func (p *s3Presigner) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}

	return req.URL, nil
}
