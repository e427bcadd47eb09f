// Package s3 implements the object-storage port on AWS S3. Attachment bytes
// are written under the configured bucket; the returned URL is what gets
// embedded on the result entry.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"accessaudit/config"
	"accessaudit/domain/observability"
	"accessaudit/domain/storage"
)

type client struct {
	s3Client *awss3.Client
	bucket   string
	baseURL  string
	logger   observability.Logger
	metrics  observability.Metrics
}

// New creates an S3-backed object storage and verifies the bucket exists.
func New(cfg *config.StorageConfig, logger observability.Logger, metrics observability.Metrics) (storage.ObjectStorage, error) {
	awsCfg, err := buildAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	s3Client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = true
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
	})

	c := &client{
		s3Client: s3Client,
		bucket:   cfg.Bucket,
		baseURL:  publicBaseURL(cfg),
		logger:   logger.WithFields(map[string]interface{}{"component": "s3_storage"}),
		metrics:  metrics.WithTags(map[string]string{"storage": "s3"}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.ensureBucketExists(ctx); err != nil {
		logger.Error("Failed to verify bucket existence", "error", err, "bucket", cfg.Bucket)
		return nil, fmt.Errorf("failed to verify bucket existence: %w", err)
	}

	logger.Info("S3 storage initialized", "bucket", cfg.Bucket, "region", cfg.S3.Region)
	return c, nil
}

func (c *client) Put(ctx context.Context, key string, reader io.Reader, meta storage.ObjectMetadata) (*storage.StoredObject, error) {
	start := time.Now()

	buf := &bytes.Buffer{}
	bytesRead, err := io.Copy(buf, reader)
	if err != nil {
		c.logger.Error("Failed to read content", "error", err, "key", key)
		c.metrics.IncrementCounter("s3.put.errors", map[string]string{"error_type": "read_error"})
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	input := &awss3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(buf.Bytes()),
	}
	if meta.ContentType != "" {
		input.ContentType = aws.String(meta.ContentType)
	}

	if _, err := c.s3Client.PutObject(ctx, input); err != nil {
		c.logger.Error("Failed to put object", "error", err, "key", key)
		c.metrics.IncrementCounter("s3.put.errors", map[string]string{"error_type": "s3_error"})
		return nil, fmt.Errorf("failed to put object: %w", err)
	}

	duration := time.Since(start)
	c.logger.Info("Object stored successfully",
		"key", key,
		"size_bytes", bytesRead,
		"duration_ms", duration.Milliseconds())
	c.metrics.IncrementCounter("s3.put.success", nil)
	c.metrics.RecordHistogram("s3.put.duration", float64(duration.Milliseconds()), nil)
	c.metrics.RecordHistogram("s3.put.size", float64(bytesRead), nil)

	return &storage.StoredObject{
		URL:  c.objectURL(key),
		Key:  key,
		Size: bytesRead,
	}, nil
}

func (c *client) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	start := time.Now()

	result, err := c.s3Client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			c.metrics.IncrementCounter("s3.get.not_found", nil)
			return nil, storage.ErrObjectNotFound
		}
		c.logger.Error("Failed to get object", "error", err, "key", key)
		c.metrics.IncrementCounter("s3.get.errors", nil)
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	c.metrics.IncrementCounter("s3.get.success", nil)
	c.metrics.RecordHistogram("s3.get.duration", float64(time.Since(start).Milliseconds()), nil)
	return result.Body, nil
}

func (c *client) Delete(ctx context.Context, key string) error {
	_, err := c.s3Client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		c.logger.Error("Failed to delete object", "error", err, "key", key)
		c.metrics.IncrementCounter("s3.delete.errors", nil)
		return fmt.Errorf("failed to delete object: %w", err)
	}

	c.metrics.IncrementCounter("s3.delete.success", nil)
	return nil
}

func (c *client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.s3Client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		c.logger.Error("Failed to check object existence", "error", err, "key", key)
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

func (c *client) ensureBucketExists(ctx context.Context) error {
	_, err := c.s3Client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		var nse *s3types.NotFound
		if errors.As(err, &nse) {
			c.logger.Info("Bucket does not exist, attempting to create", "bucket", c.bucket)
			return c.createBucket(ctx)
		}
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	return nil
}

func (c *client) createBucket(ctx context.Context) error {
	_, err := c.s3Client.CreateBucket(ctx, &awss3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		var bae *s3types.BucketAlreadyExists
		var baoyb *s3types.BucketAlreadyOwnedByYou
		if errors.As(err, &bae) || errors.As(err, &baoyb) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	c.logger.Info("Bucket created", "bucket", c.bucket)
	return nil
}

func (c *client) objectURL(key string) string {
	return strings.TrimSuffix(c.baseURL, "/") + "/" + strings.TrimPrefix(key, "/")
}

func publicBaseURL(cfg *config.StorageConfig) string {
	if cfg.S3.PublicBaseURL != "" {
		return cfg.S3.PublicBaseURL
	}
	if cfg.S3.Endpoint != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.S3.Endpoint, "/"), cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.S3.Region)
}

func buildAWSConfig(cfg *config.StorageConfig) (aws.Config, error) {
	var optFns []func(*awsconfig.LoadOptions) error

	if cfg.S3.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(cfg.S3.Region))
	}

	// Static credentials when provided; default chain otherwise.
	if cfg.S3.AccessKeyID != "" && cfg.S3.SecretAccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.S3.AccessKeyID,
				cfg.S3.SecretAccessKey,
				"",
			),
		))
	}

	optFns = append(optFns, awsconfig.WithHTTPClient(&http.Client{
		Timeout: cfg.Timeout,
	}))

	return awsconfig.LoadDefaultConfig(context.Background(), optFns...)
}

func isNotFoundError(err error) bool {
	var nsk *s3types.NoSuchKey
	var nse *s3types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nse)
}
