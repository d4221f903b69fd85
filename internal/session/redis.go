package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/facilitator-console/internal/platform/logger"
)

const defaultKeyPrefix = "facilitator:session:"

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore keeps only the sid in a cookie; the token pair lives in a
// Redis hash that expires with the cookie.
type RedisStore struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	cookie CookieConfig
	prefix string
}

func NewRedisStore(ctx context.Context, log *logger.Logger, cookie CookieConfig, cfg RedisConfig) (*RedisStore, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStoreWithClient(log, rdb, cookie, cfg.KeyPrefix), nil
}

func NewRedisStoreWithClient(log *logger.Logger, rdb goredis.UniversalClient, cookie CookieConfig, prefix string) *RedisStore {
	if log == nil {
		log = logger.NewNop()
	}
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{
		log:    log.With("service", "RedisSessionStore"),
		rdb:    rdb,
		cookie: cookie,
		prefix: prefix,
	}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) Load(ctx context.Context, r *http.Request) (Data, error) {
	id, known := sessionID(r)
	d := Data{ID: id, Fresh: !known}
	if !known {
		return d, nil
	}
	vals, err := s.rdb.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return d, fmt.Errorf("load session: %w", err)
	}
	d.Tokens.Access = vals["access"]
	d.Tokens.Refresh = vals["refresh"]
	return d, nil
}

func (s *RedisStore) Save(ctx context.Context, w http.ResponseWriter, d Data) error {
	key := s.key(d.ID)
	_, err := s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, key)
		if !d.Tokens.Empty() {
			p.HSet(ctx, key, "access", d.Tokens.Access, "refresh", d.Tokens.Refresh)
			p.Expire(ctx, key, s.cookie.ttl())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	http.SetCookie(w, s.cookie.cookie(SessionCookie, d.ID))
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, w http.ResponseWriter, d Data) error {
	http.SetCookie(w, s.cookie.expired(SessionCookie))
	if d.ID == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, s.key(d.ID)).Err(); err != nil {
		s.log.Warn("session delete failed", "session_id", d.ID, "error", err)
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
