package objectstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/facilitator-console/internal/platform/logger"
)

type Mode string

const (
	ModeS3  Mode = "s3"
	ModeGCS Mode = "gcs"
)

type Config struct {
	Mode Mode
	S3   S3Config
	GCS  GCSConfig
}

type ConfigError struct {
	Mode string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", e.Mode, ModeS3, ModeGCS)
}

// ParseMode defaults to S3 when raw is empty.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeS3:
		return ModeS3, nil
	case ModeGCS:
		return ModeGCS, nil
	default:
		return "", &ConfigError{Mode: raw}
	}
}

// New builds the backend selected by cfg.Mode.
func New(ctx context.Context, log *logger.Logger, cfg Config) (Store, error) {
	switch cfg.Mode {
	case "", ModeS3:
		return NewS3Store(ctx, log, cfg.S3)
	case ModeGCS:
		return NewGCSStore(ctx, log, cfg.GCS)
	default:
		return nil, &ConfigError{Mode: string(cfg.Mode)}
	}
}
