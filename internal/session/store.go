package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/facilitator-console/internal/apiclient"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
	SessionCookie = "sid"

	DefaultTTL = 7 * 24 * time.Hour
)

type Mode string

const (
	ModeCookie Mode = "cookie"
	ModeRedis  Mode = "redis"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeCookie:
		return ModeCookie, nil
	case ModeRedis:
		return ModeRedis, nil
	default:
		return "", fmt.Errorf("unknown session store %q", raw)
	}
}

// Data is what the shell remembers about one browser.
type Data struct {
	ID     string
	Tokens apiclient.Tokens
	// Fresh is set when Load minted a new id; the sid cookie still has to be written.
	Fresh bool
}

func (d Data) Authenticated() bool { return d.Tokens.Access != "" }

// Store persists the token pair between shell requests.
type Store interface {
	Load(ctx context.Context, r *http.Request) (Data, error)
	Save(ctx context.Context, w http.ResponseWriter, d Data) error
	Clear(ctx context.Context, w http.ResponseWriter, d Data) error
}

type CookieConfig struct {
	TTL    time.Duration
	Secure bool
	Domain string
}

type Config struct {
	Mode   Mode
	Cookie CookieConfig
	Redis  RedisConfig
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (Store, error) {
	switch cfg.Mode {
	case "", ModeCookie:
		return NewCookieStore(cfg.Cookie), nil
	case ModeRedis:
		return NewRedisStore(ctx, log, cfg.Cookie, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Mode)
	}
}

// sessionID returns the sid cookie when it holds a uuid, else a fresh one.
func sessionID(r *http.Request) (string, bool) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String(), true
		}
	}
	return uuid.NewString(), false
}

func (c CookieConfig) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultTTL
	}
	return c.TTL
}

func (c CookieConfig) cookie(name, value string) *http.Cookie {
	ttl := c.ttl()
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c CookieConfig) expired(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
