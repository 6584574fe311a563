package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/internal/telemetry"
)

// S3Config holds the offsite archive target.
type S3Config struct {
	// Bucket is the S3 bucket name.
	Bucket string

	// Region is the AWS region (optional, uses SDK default if empty).
	Region string

	// Endpoint is the S3 endpoint URL (optional, for S3-compatible services).
	Endpoint string

	// KeyPrefix is prepended to all object keys (e.g., "cubby/").
	// Should end with "/" if non-empty.
	KeyPrefix string

	// AccessKeyID and SecretAccessKey are static credentials for services
	// outside the AWS credential chain. Both empty means the default chain
	// (environment, shared credentials file, IAM role) applies.
	AccessKeyID     string
	SecretAccessKey string

	// ForcePathStyle forces path-style addressing (required for Localstack/MinIO).
	ForcePathStyle bool
}

// Uploader pushes backup archives to S3-compatible object storage.
type Uploader struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// NewUploader creates an Uploader with an existing client.
func NewUploader(client *s3.Client, cfg S3Config) *Uploader {
	return &Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}
}

// NewUploaderFromConfig creates an Uploader by building an S3 client from
// config. This is the preferred constructor when you don't have an existing
// S3 client.
func NewUploaderFromConfig(ctx context.Context, cfg S3Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return NewUploader(s3.NewFromConfig(awsCfg, s3Opts...), cfg), nil
}

// Upload stores the archive under the key prefix plus its base name and
// returns the object key.
func (u *Uploader) Upload(ctx context.Context, archivePath string) (string, error) {
	key := u.keyPrefix + filepath.Base(archivePath)
	ctx, span := telemetry.StartBackupSpan(ctx, "upload",
		telemetry.Bucket(u.bucket),
		telemetry.StorageKey(key))
	defer span.End()

	f, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/gzip"),
	})
	if err != nil {
		telemetry.RecordError(ctx, err)
		return "", fmt.Errorf("s3 put object: %w", err)
	}

	logger.Info("backup archive uploaded", "bucket", u.bucket, "key", key)
	return key, nil
}

// HealthCheck verifies the bucket is accessible before a long upload.
func (u *Uploader) HealthCheck(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3 bucket check failed: %w", err)
	}
	return nil
}
