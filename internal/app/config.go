package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yungbote/facilitator-console/internal/apiclient"
	"github.com/yungbote/facilitator-console/internal/platform/objectstore"
	"github.com/yungbote/facilitator-console/internal/platform/observability"
	"github.com/yungbote/facilitator-console/internal/session"
)

type BusMode string

const (
	BusLocal BusMode = "local"
	BusRedis BusMode = "redis"
)

type ServerConfig struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type BusConfig struct {
	Mode    BusMode
	Channel string
}

type UploadConfig struct {
	MaxBytes   int64
	ResetDelay time.Duration
	SpoolDir   string
	// IdleTTL drops upload state of sessions that have gone quiet.
	IdleTTL time.Duration
}

type Config struct {
	LogMode   string
	Server    ServerConfig
	API       apiclient.Config
	Session   session.Config
	Storage   objectstore.Config
	Redis     RedisConfig
	Bus       BusConfig
	StaleTime time.Duration
	Upload    UploadConfig
	Otel      observability.OtelConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.mode", "development")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", "")
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", 30*time.Second)

	v.SetDefault("session.store", string(session.ModeCookie))
	v.SetDefault("session.key_prefix", "facilitator:session:")
	v.SetDefault("cookie.ttl", session.DefaultTTL)
	v.SetDefault("cookie.secure", false)
	v.SetDefault("cookie.domain", "")

	v.SetDefault("object_storage.mode", string(objectstore.ModeS3))
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.credentials", "")
	v.SetDefault("storage.emulator_host", "")
	v.SetDefault("storage.cdn_domain", "")
	v.SetDefault("storage.upload_timeout", 10*time.Minute)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "facilitator-sse")
	v.SetDefault("sse.bus", "")

	v.SetDefault("cache.stale_time", 5*time.Minute)

	v.SetDefault("upload.max_bytes", int64(500<<20))
	v.SetDefault("upload.reset_delay", time.Second)
	v.SetDefault("upload.spool_dir", "")
	v.SetDefault("upload.idle_ttl", 24*time.Hour)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service_name", "facilitator-console")
	v.SetDefault("otel.environment", "development")
	v.SetDefault("otel.version", "")
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.headers", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.sample_ratio", 0.1)
}

// LoadConfig reads defaults, then CONFIG_FILE (yaml/json/toml) if set, then the
// environment. A .env file in the working directory seeds the environment
// without overriding variables that are already set.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}
	return configFrom(v)
}

func configFrom(v *viper.Viper) (Config, error) {
	sessionMode, err := session.ParseMode(v.GetString("session.store"))
	if err != nil {
		return Config{}, err
	}
	storageMode, err := objectstore.ParseMode(v.GetString("object_storage.mode"))
	if err != nil {
		return Config{}, err
	}
	busMode, err := parseBusMode(v.GetString("sse.bus"), v.GetString("redis.addr"))
	if err != nil {
		return Config{}, err
	}

	redisCfg := RedisConfig{
		Addr:     strings.TrimSpace(v.GetString("redis.addr")),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	uploadTimeout := v.GetDuration("storage.upload_timeout")

	cfg := Config{
		LogMode: v.GetString("log.mode"),
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			AllowedOrigins:  splitList(v.GetString("server.allowed_origins")),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		API: apiclient.Config{
			BaseURL: v.GetString("api.base_url"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Session: session.Config{
			Mode: sessionMode,
			Cookie: session.CookieConfig{
				TTL:    v.GetDuration("cookie.ttl"),
				Secure: v.GetBool("cookie.secure"),
				Domain: v.GetString("cookie.domain"),
			},
			Redis: session.RedisConfig{
				Addr:      redisCfg.Addr,
				Password:  redisCfg.Password,
				DB:        redisCfg.DB,
				KeyPrefix: v.GetString("session.key_prefix"),
			},
		},
		Storage: objectstore.Config{
			Mode: storageMode,
			S3: objectstore.S3Config{
				Bucket:          v.GetString("storage.bucket"),
				Region:          v.GetString("storage.region"),
				AccessKeyID:     v.GetString("storage.access_key_id"),
				SecretAccessKey: v.GetString("storage.secret_access_key"),
				Endpoint:        v.GetString("storage.endpoint"),
				UploadTimeout:   uploadTimeout,
			},
			GCS: objectstore.GCSConfig{
				Bucket:        v.GetString("storage.bucket"),
				Credentials:   v.GetString("storage.credentials"),
				EmulatorHost:  v.GetString("storage.emulator_host"),
				CDNDomain:     v.GetString("storage.cdn_domain"),
				UploadTimeout: uploadTimeout,
			},
		},
		Redis: redisCfg,
		Bus: BusConfig{
			Mode:    busMode,
			Channel: v.GetString("redis.channel"),
		},
		StaleTime: v.GetDuration("cache.stale_time"),
		Upload: UploadConfig{
			MaxBytes:   v.GetInt64("upload.max_bytes"),
			ResetDelay: v.GetDuration("upload.reset_delay"),
			SpoolDir:   v.GetString("upload.spool_dir"),
			IdleTTL:    v.GetDuration("upload.idle_ttl"),
		},
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("otel.enabled"),
			ServiceName: v.GetString("otel.service_name"),
			Environment: v.GetString("otel.environment"),
			Version:     v.GetString("otel.version"),
			Endpoint:    v.GetString("otel.endpoint"),
			Headers:     v.GetString("otel.headers"),
			Insecure:    v.GetBool("otel.insecure"),
			SampleRatio: v.GetFloat64("otel.sample_ratio"),
		},
	}
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return Config{}, fmt.Errorf("missing API_BASE_URL")
	}
	if cfg.Session.Mode == session.ModeRedis && redisCfg.Addr == "" {
		return Config{}, fmt.Errorf("SESSION_STORE=redis requires REDIS_ADDR")
	}
	return cfg, nil
}

// parseBusMode defaults to redis when REDIS_ADDR is set.
func parseBusMode(raw, redisAddr string) (BusMode, error) {
	switch BusMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		if strings.TrimSpace(redisAddr) != "" {
			return BusRedis, nil
		}
		return BusLocal, nil
	case BusLocal:
		return BusLocal, nil
	case BusRedis:
		if strings.TrimSpace(redisAddr) == "" {
			return "", fmt.Errorf("SSE_BUS=redis requires REDIS_ADDR")
		}
		return BusRedis, nil
	default:
		return "", fmt.Errorf("invalid SSE_BUS=%q (allowed: %q, %q)", raw, BusLocal, BusRedis)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
