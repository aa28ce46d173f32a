package facades

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
)

// S3PutObjectAPI is the subset of the S3 client used by the media facade.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// MediaConfig carries the media host credentials, constructed once at startup.
type MediaConfig struct {
	Endpoint      string // S3-compatible endpoint URL
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // Base URL under which uploaded keys are publicly served
}

// NewS3Client builds an S3 client for the configured media host.
func NewS3Client(ctx context.Context, cfg MediaConfig) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// MediaFacade transfers locally staged files to the remote media host.
type MediaFacade struct {
	client        S3PutObjectAPI
	bucket        string
	publicBaseURL string
}

// NewMediaFacade creates a new facade over an S3-compatible media host.
func NewMediaFacade(client S3PutObjectAPI, cfg MediaConfig) *MediaFacade {
	return &MediaFacade{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

func randomStorageKey(ext string) string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%d/%d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

// Upload transfers the file at localPath to the media host and returns the
// resulting asset, or nil on any failure. The local temporary file is removed
// on every exit path, success or failure; callers must check for nil.
func (f *MediaFacade) Upload(ctx context.Context, localPath string) *models.MediaAsset {
	if localPath == "" {
		return nil
	}
	defer os.Remove(localPath)

	file, err := os.Open(localPath)
	if err != nil {
		logger.Log.Errorw("local file not found for upload", "path", localPath, "error", err)
		return nil
	}
	defer file.Close()

	ext := filepath.Ext(localPath)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := randomStorageKey(ext)

	_, err = f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(f.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Log.Errorw("failed to upload file to media host", "path", localPath, "key", key, "error", err)
		return nil
	}

	logger.Log.Infow("file uploaded to media host", "key", key)

	return &models.MediaAsset{
		URL: f.publicBaseURL + "/" + key,
		Key: key,
	}
}
