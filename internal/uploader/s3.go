package uploader

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3Uploader implements Uploader for S3-compatible storage (AWS S3,
// Cloudflare R2, MinIO).
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// S3Config contains the connection parameters for an S3-compatible bucket.
type S3Config struct {
	// Endpoint is a custom S3 endpoint URL (for R2:
	// https://account-id.r2.cloudflarestorage.com). Empty means AWS S3.
	Endpoint string

	// Region of the bucket ("us-east-1", or "auto" for R2).
	Region string

	Bucket string

	// AccessKeyID and SecretAccessKey override the environment. When empty,
	// R2_ACCESS_KEY_ID/R2_SECRET_ACCESS_KEY are tried first, then the AWS
	// variables.
	AccessKeyID     string
	SecretAccessKey string

	// BaseURL is the public URL base for uploaded objects.
	BaseURL string
}

// NewS3Uploader creates an uploader for the configured bucket.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	accessKey := cfg.AccessKeyID
	if accessKey == "" {
		accessKey = os.Getenv("R2_ACCESS_KEY_ID")
	}
	if accessKey == "" {
		accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	}

	secretKey := cfg.SecretAccessKey
	if secretKey == "" {
		secretKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	}
	if secretKey == "" {
		secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}

	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("missing credentials: set R2_ACCESS_KEY_ID/R2_SECRET_ACCESS_KEY or AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for R2
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", cfg.Endpoint, cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	log.Info().
		Str("bucket", cfg.Bucket).
		Str("region", cfg.Region).
		Str("endpoint", cfg.Endpoint).
		Str("baseURL", baseURL).
		Msg("Dataset uploader initialized")

	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

// Upload stores a dataset file in the bucket.
func (u *S3Uploader) Upload(ctx context.Context, key string, content io.Reader, contentType string) error {
	log.Debug().Str("key", key).Str("contentType", contentType).Msg("Uploading")

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Exists reports whether an object already exists at key.
func (u *S3Uploader) Exists(ctx context.Context, key string) (bool, error) {
	_, err := u.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "404") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existence of %s: %w", key, err)
	}
	return true, nil
}

// GetURL returns the public URL of an uploaded object.
func (u *S3Uploader) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", u.baseURL, key)
}

// Delete removes an object from the bucket.
func (u *S3Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
