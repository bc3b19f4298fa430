package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/dev-tanvu/mateluxy-backend/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
)

// S3Store implements Store on top of an S3-compatible bucket. When
// BaseEndpoint is set (MinIO, localstack) path-style addressing is used and
// public URLs take the <endpoint>/<bucket>/<key> form; otherwise the standard
// virtual-hosted AWS URL is produced.
type S3Store struct {
	config *sc.Config
	client *s3.Client
}

// NewS3Store builds the S3 client from static credentials in the server
// config.
func NewS3Store(cfg *sc.Config) (*S3Store, error) {
	awsCfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{config: cfg, client: client}, nil
}

// GetRandomStorageKey produces a date-partitioned object key.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("uploads/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *S3Store) publicURL(key string) string {
	if s.config.S3BaseEndpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.config.S3BaseEndpoint, "/"), s.config.S3Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.S3Bucket, s.config.S3Region, key)
}

// keyFromURL recovers the object key from a URL previously returned by
// publicURL.
func (s *S3Store) keyFromURL(url string) (string, error) {
	var prefix string
	if s.config.S3BaseEndpoint != "" {
		prefix = fmt.Sprintf("%s/%s/", strings.TrimRight(s.config.S3BaseEndpoint, "/"), s.config.S3Bucket)
	} else {
		prefix = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.config.S3Bucket, s.config.S3Region)
	}
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("url %q does not belong to bucket %s", url, s.config.S3Bucket)
	}
	return strings.TrimPrefix(url, prefix), nil
}

// Store uploads the payload under a fresh key and returns its public URL.
func (s *S3Store) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	key := GetRandomStorageKey()

	_, err := putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put: %w", err)
	}

	return s.publicURL(key), nil
}

// Fetch downloads the object the URL points at.
func (s *S3Store) Fetch(ctx context.Context, url string) ([]byte, error) {
	key, err := s.keyFromURL(url)
	if err != nil {
		return nil, err
	}

	out, err := getObject(s.client, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read: %w", err)
	}
	return data, nil
}

// Delete removes the object the URL points at.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, err := s.keyFromURL(url)
	if err != nil {
		return err
	}

	_, err = deleteObject(s.client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete: %w", err)
	}
	return nil
}
