package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/moodjournal/internal/client/models"
	"github.com/dmitrijs2005/moodjournal/internal/logging"
)

// ErrBackupDisabled is returned by Export when no bucket is configured.
var ErrBackupDisabled = errors.New("backup is not configured")

type BackupConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

func (c BackupConfig) Enabled() bool {
	return c.Bucket != ""
}

type Uploader interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Uploader builds an S3 client for cfg. A custom endpoint (MinIO and
// friends) switches to path-style addressing.
func NewS3Uploader(ctx context.Context, cfg BackupConfig) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

type export struct {
	Username   string                `json:"username"`
	ExportedAt time.Time             `json:"exported_at"`
	Entries    []models.JournalEntry `json:"entries"`
}

// BackupService uploads JSON exports of the journal.
type BackupService struct {
	uploader Uploader
	bucket   string
	log      logging.Logger
	now      func() time.Time
}

// NewBackupService returns a service writing to bucket. A nil uploader or an
// empty bucket disables exports.
func NewBackupService(uploader Uploader, bucket string, log logging.Logger) *BackupService {
	return &BackupService{uploader: uploader, bucket: bucket, log: log, now: time.Now}
}

// Export writes entries to s3://bucket/<username>/<timestamp>.json and
// returns the object key.
func (s *BackupService) Export(ctx context.Context, username string, list []models.JournalEntry) (string, error) {
	if s.uploader == nil || s.bucket == "" {
		return "", ErrBackupDisabled
	}

	at := s.now().UTC()
	body, err := json.Marshal(export{Username: username, ExportedAt: at, Entries: list})
	if err != nil {
		return "", fmt.Errorf("error encoding export: %w", err)
	}

	key := fmt.Sprintf("%s/%s.json", username, at.Format("20060102T150405Z"))
	_, err = s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading export: %w", err)
	}

	s.log.Info(ctx, "journal exported", "bucket", s.bucket, "key", key, "entries", len(list))
	return key, nil
}
