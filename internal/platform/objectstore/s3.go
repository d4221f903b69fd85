package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/yungbote/facilitator-console/internal/platform/logger"
)

type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint targets an S3-compatible service (minio, localstack); path-style addressing is used.
	Endpoint      string
	UploadTimeout time.Duration
}

type s3Store struct {
	log     *logger.Logger
	client  *s3.Client
	cfg     S3Config
	timeout time.Duration
}

func NewS3Store(ctx context.Context, log *logger.Logger, cfg S3Config) (Store, error) {
	cfg.Bucket = strings.TrimSpace(cfg.Bucket)
	cfg.Region = strings.TrimSpace(cfg.Region)
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: %w", ErrMissingBucket)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("missing S3 region")
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = 10 * time.Minute
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Only checksum when S3 requires it so the body is streamed once.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		if ep := strings.TrimSpace(cfg.Endpoint); ep != "" {
			o.BaseEndpoint = aws.String(ep)
			o.UsePathStyle = true
		}
	})

	log.Info("Object storage initialized", "mode", ModeS3, "bucket", cfg.Bucket, "region", cfg.Region, "endpoint", cfg.Endpoint)
	return &s3Store{
		log:     log.With("service", "S3Store"),
		client:  client,
		cfg:     cfg,
		timeout: cfg.UploadTimeout,
	}, nil
}

func (s *s3Store) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	_, err := s.client.PutObject(ctx, in, s3.WithAPIOptions(v4.SwapComputePayloadSHA256ForUnsignedPayloadMiddleware))
	if err != nil {
		return fmt.Errorf("put s3 object %q: %w", key, err)
	}
	return nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete s3 object %q: %w", key, err)
	}
	return nil
}

func (s *s3Store) PublicURL(key string) string {
	if ep := strings.TrimRight(strings.TrimSpace(s.cfg.Endpoint), "/"); ep != "" {
		return fmt.Sprintf("%s/%s/%s", ep, s.cfg.Bucket, strings.TrimLeft(key, "/"))
	}
	return S3PublicURL(s.cfg.Bucket, s.cfg.Region, key)
}

func (s *s3Store) KeyFromURL(rawURL string) (string, error) {
	ep := strings.TrimSpace(s.cfg.Endpoint)
	if ep == "" {
		return S3KeyFromURL(s.cfg.Bucket, s.cfg.Region, rawURL)
	}
	base, err := url.Parse(ep)
	if err != nil {
		return "", fmt.Errorf("parse s3 endpoint: %w", err)
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse object url: %w", err)
	}
	prefix := "/" + s.cfg.Bucket + "/"
	if !strings.EqualFold(u.Host, base.Host) || !strings.HasPrefix(u.Path, prefix) {
		return "", ErrForeignURL
	}
	return nonEmptyKey(strings.TrimPrefix(u.Path, prefix))
}

// S3PublicURL is https://{bucket}.s3.{region}.amazonaws.com/{key}.
func S3PublicURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, strings.TrimLeft(key, "/"))
}

// S3KeyFromURL returns the object key of a URL built by S3PublicURL for the
// same bucket and region; any other host is ErrForeignURL.
func S3KeyFromURL(bucket, region, rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse object url: %w", err)
	}
	if u.Scheme != "https" || !strings.EqualFold(u.Host, fmt.Sprintf("%s.s3.%s.amazonaws.com", bucket, region)) {
		return "", ErrForeignURL
	}
	return nonEmptyKey(strings.TrimPrefix(u.Path, "/"))
}

func nonEmptyKey(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}
