// Package storage stores uploaded images in an S3-compatible bucket (AWS S3, MinIO,
// Cloudflare R2) and hands back their public URL.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/chatapp/realtime-chat/internal/core/domain"
	"github.com/chatapp/realtime-chat/internal/pkg/metrics"
)

const defaultUploadTimeout = 30 * time.Second

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for S3-compatible services
	AccessKey string
	SecretKey string
	PublicURL string // base URL objects are served from; derived from bucket and region when empty
	Timeout   time.Duration
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type ImageStore struct {
	client    putObjectAPI
	bucket    string
	publicURL string
	timeout   time.Duration
}

// New builds an S3 client from the default AWS config chain. Static
// credentials take precedence when both keys are set.
func New(ctx context.Context, cfg Config) (*ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, cfg), nil
}

func NewWithClient(client putObjectAPI, cfg Config) *ImageStore {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}
	return &ImageStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicBaseURL(cfg),
		timeout:   timeout,
	}
}

// Upload writes img under folder/<uuid><ext> and returns its public URL.
func (s *ImageStore) Upload(ctx context.Context, folder string, img domain.Image) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.NewString(), img.Extension)

	start := time.Now()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.Data),
		ContentType:   aws.String(img.ContentType),
		ContentLength: aws.Int64(int64(len(img.Data))),
	})
	metrics.ImageUploadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ImageUploadsTotal.WithLabelValues(folder, "failure").Inc()
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}

	metrics.ImageUploadsTotal.WithLabelValues(folder, "success").Inc()
	return s.publicURL + "/" + key, nil
}

func publicBaseURL(cfg Config) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}
