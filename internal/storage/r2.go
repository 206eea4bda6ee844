// Package storage generates presigned upload and download URLs against an
// S3-compatible object store (Cloudflare R2). Files never pass through the
// API server; clients talk to the bucket directly with short-lived URLs.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignExpiry = time.Hour

// Allowed upload content types, by prefix.
var allowedContentTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"application/pdf",
}

type Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

type Service struct {
	presigner *s3.PresignClient
	bucket    string
}

// New builds a presigning service against the R2 endpoint for the account.
func New(ctx context.Context, cfg Config) (*Service, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &Service{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
	}, nil
}

// ContentTypeAllowed reports whether uploads of the given type are accepted.
func ContentTypeAllowed(contentType string) bool {
	for _, allowed := range allowedContentTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}

// ObjectKey builds a namespaced storage key for a user upload.
func ObjectKey(userID uint, kind, filename string) string {
	return fmt.Sprintf("%s/%d/%s-%s", kind, userID, uuid.NewString()[:8], filename)
}

// PresignUpload returns a URL the client can PUT the object to, valid for
// one hour.
func (s *Service) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return req.URL, nil
}

// PresignDownload returns a URL the client can GET the object from, valid
// for one hour.
func (s *Service) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, nil
}
