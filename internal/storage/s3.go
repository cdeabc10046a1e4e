package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"estatehub/internal/config"
)

const imagePrefix = "property-images/"

// allowed image content types, keyed by file extension.
var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// ImageStore persists listing photos in object storage.
type ImageStore interface {
	Upload(ctx context.Context, filename string, content io.Reader) (url string, err error)
	Delete(ctx context.Context, url string) error
}

// S3ImageStore stores images in an S3 bucket.
type S3ImageStore struct {
	client   *s3.Client
	bucket   string
	endpoint string
	region   string
}

// NewS3ImageStore creates an image store backed by S3 (or any S3-compatible
// endpoint such as MinIO).
func NewS3ImageStore(cfg *config.Config) (*S3ImageStore, error) {
	ctx := context.Background()

	var awsCfg aws.Config
	var err error
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.S3Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.S3AccessKey,
				cfg.S3SecretKey,
				"",
			)),
		)
	} else {
		// Default credential chain (IAM roles, env vars, etc.)
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	}
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		if cfg.S3UsePathStyle {
			o.UsePathStyle = true
		}
	})

	return &S3ImageStore{
		client:   client,
		bucket:   cfg.S3Bucket,
		endpoint: cfg.S3Endpoint,
		region:   cfg.S3Region,
	}, nil
}

// AllowedImage reports whether the filename carries an accepted image extension.
func AllowedImage(filename string) bool {
	_, ok := imageContentTypes[strings.ToLower(path.Ext(filename))]
	return ok
}

// Upload stores an image under the listing prefix and returns its public URL.
func (s *S3ImageStore) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	contentType, ok := imageContentTypes[strings.ToLower(path.Ext(filename))]
	if !ok {
		return "", fmt.Errorf("unsupported image type: %s", filename)
	}

	key := imagePrefix + filename
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	return s.objectURL(key), nil
}

// Delete removes a previously uploaded image by its public URL. Unknown URLs
// are ignored.
func (s *S3ImageStore) Delete(ctx context.Context, url string) error {
	key := s.keyFromURL(url)
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func (s *S3ImageStore) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3ImageStore) keyFromURL(url string) string {
	idx := strings.Index(url, imagePrefix)
	if idx < 0 {
		return ""
	}
	return url[idx:]
}
