package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/platform/objectstore"
)

var newObjectStore = objectstore.New

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode   StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorConnectFailed StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code   StorageProviderBootstrapErrorCode
	Mode   string
	Bucket string
	Cause  error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q bucket=%q): %v",
		e.Code,
		e.Mode,
		e.Bucket,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func configuredBucket(cfg objectstore.Config) string {
	if cfg.Mode == objectstore.ModeGCS {
		return cfg.GCS.Bucket
	}
	return cfg.S3.Bucket
}

// resolveObjectStore returns a nil store (uploads disabled) when no bucket is
// configured. Any other failure is fatal.
func resolveObjectStore(ctx context.Context, log *logger.Logger, cfg objectstore.Config) (objectstore.Store, error) {
	bucket := configuredBucket(cfg)
	log.Info(
		"Selecting object storage provider",
		"mode", cfg.Mode,
		"bucket", bucket,
	)

	store, err := newObjectStore(ctx, log, cfg)
	if err != nil {
		if errors.Is(err, objectstore.ErrMissingBucket) {
			log.Warn("Object storage not configured; uploads are disabled", "mode", cfg.Mode)
			return nil, nil
		}
		classified := classifyStorageProviderBootstrapError(cfg, err)
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", cfg.Mode,
			"bucket", bucket,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return store, nil
}

func classifyStorageProviderBootstrapError(cfg objectstore.Config, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *objectstore.ConfigError
	if errors.As(err, &cfgErr) {
		code = StorageProviderBootstrapErrorInvalidMode
	}
	return &StorageProviderBootstrapError{
		Code:   code,
		Mode:   string(cfg.Mode),
		Bucket: configuredBucket(cfg),
		Cause:  err,
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
