package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrStorageDisabled is returned when no bucket is configured
var ErrStorageDisabled = errors.New("object storage is not configured")

// S3Config holds the S3 client and bucket used for recipe and profile images
type S3Config struct {
	Client        *s3.Client
	BucketName    string
	Region        string
	PublicBaseURL string
}

// NewS3Config initializes the S3 client from the shared AWS configuration chain
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	if cfg.S3BucketName == "" {
		return nil, ErrStorageDisabled
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &S3Config{
		Client:        s3.NewFromConfig(awsCfg),
		BucketName:    cfg.S3BucketName,
		Region:        cfg.AWSRegion,
		PublicBaseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
	}, nil
}

// PutObject uploads body under key and returns its public URL
func (s *S3Config) PutObject(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.BucketName),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// DeleteObject removes key from the bucket
func (s *S3Config) DeleteObject(ctx context.Context, key string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// PublicURL is the address an object is served from, honoring a CDN base when set
func (s *S3Config) PublicURL(key string) string {
	if s.PublicBaseURL != "" {
		return s.PublicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.BucketName, s.Region, key)
}

// KeyFromURL reverses PublicURL; ok is false for URLs outside this bucket
func (s *S3Config) KeyFromURL(url string) (string, bool) {
	prefix := s.PublicURL("")
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
