package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/facilitator-console/internal/platform/logger"
)

type GCSConfig struct {
	Bucket string
	// Credentials is a path to a service-account file or the JSON document itself.
	Credentials   string
	EmulatorHost  string
	CDNDomain     string
	UploadTimeout time.Duration
}

type gcsStore struct {
	log           *logger.Logger
	storageClient *storage.Client
	cfg           GCSConfig
}

func NewGCSStore(ctx context.Context, log *logger.Logger, cfg GCSConfig) (Store, error) {
	cfg.Bucket = strings.TrimSpace(cfg.Bucket)
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs: %w", ErrMissingBucket)
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = 10 * time.Minute
	}
	cfg.EmulatorHost = strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")

	var opts []option.ClientOption
	if cfg.EmulatorHost != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(opts, clientOptions(cfg.Credentials)...)
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	log.Info("Object storage initialized", "mode", ModeGCS, "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)
	return &gcsStore{
		log:           log.With("service", "GCSStore"),
		storageClient: client,
		cfg:           cfg,
	}, nil
}

func clientOptions(creds string) []option.ClientOption {
	creds = strings.TrimSpace(creds)
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (g *gcsStore) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	ctx, cancel := context.WithTimeout(ctx, g.cfg.UploadTimeout)
	defer cancel()

	w := g.storageClient.Bucket(g.cfg.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (g *gcsStore) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := g.storageClient.Bucket(g.cfg.Bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, g.cfg.Bucket, err)
	}
	return nil
}

func (g *gcsStore) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if g.cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", g.cfg.CDNDomain, key)
	}
	if g.cfg.EmulatorHost != "" {
		return fmt.Sprintf("%s/%s/%s", g.cfg.EmulatorHost, g.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.cfg.Bucket, key)
}

func (g *gcsStore) KeyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse object url: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if g.cfg.CDNDomain == "" || u.Host != g.cfg.CDNDomain {
		prefix := g.cfg.Bucket + "/"
		if !strings.HasPrefix(key, prefix) {
			return "", ErrForeignURL
		}
		key = strings.TrimPrefix(key, prefix)
	}
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}
