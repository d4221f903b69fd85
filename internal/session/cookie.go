package session

import (
	"context"
	"net/http"
)

// CookieStore keeps both tokens in their own HttpOnly cookies.
type CookieStore struct {
	cfg CookieConfig
}

func NewCookieStore(cfg CookieConfig) *CookieStore {
	return &CookieStore{cfg: cfg}
}

func (s *CookieStore) Load(_ context.Context, r *http.Request) (Data, error) {
	id, known := sessionID(r)
	d := Data{ID: id, Fresh: !known}
	if c, err := r.Cookie(AccessCookie); err == nil {
		d.Tokens.Access = c.Value
	}
	if c, err := r.Cookie(RefreshCookie); err == nil {
		d.Tokens.Refresh = c.Value
	}
	return d, nil
}

func (s *CookieStore) Save(_ context.Context, w http.ResponseWriter, d Data) error {
	http.SetCookie(w, s.cfg.cookie(SessionCookie, d.ID))
	if d.Tokens.Access == "" {
		http.SetCookie(w, s.cfg.expired(AccessCookie))
	} else {
		http.SetCookie(w, s.cfg.cookie(AccessCookie, d.Tokens.Access))
	}
	if d.Tokens.Refresh == "" {
		http.SetCookie(w, s.cfg.expired(RefreshCookie))
	} else {
		http.SetCookie(w, s.cfg.cookie(RefreshCookie, d.Tokens.Refresh))
	}
	return nil
}

func (s *CookieStore) Clear(_ context.Context, w http.ResponseWriter, _ Data) error {
	http.SetCookie(w, s.cfg.expired(AccessCookie))
	http.SetCookie(w, s.cfg.expired(RefreshCookie))
	return nil
}
