package apiclient

import (
	"context"
	"sync"
)

type Tokens struct {
	Access  string
	Refresh string
}

func (t Tokens) Empty() bool { return t.Access == "" && t.Refresh == "" }

// CredentialProvider owns the token pair used by outgoing requests.
// Rotation goes through SetTokens so callers never observe a half-written pair.
type CredentialProvider interface {
	Tokens(ctx context.Context) Tokens
	SetTokens(ctx context.Context, t Tokens)
	Clear(ctx context.Context)
}

// MemoryCredentials is a process-wide token pair.
type MemoryCredentials struct {
	mu     sync.RWMutex
	tokens Tokens
}

func NewMemoryCredentials(t Tokens) *MemoryCredentials {
	return &MemoryCredentials{tokens: t}
}

func (m *MemoryCredentials) Tokens(context.Context) Tokens {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens
}

func (m *MemoryCredentials) SetTokens(_ context.Context, t Tokens) {
	m.mu.Lock()
	m.tokens = t
	m.mu.Unlock()
}

func (m *MemoryCredentials) Clear(context.Context) {
	m.mu.Lock()
	m.tokens = Tokens{}
	m.mu.Unlock()
}

// Session is the token pair of one browser session for the lifetime of a request.
// Changed reports whether login, refresh or logout rewrote it, so the shell knows
// to write cookies back.
type Session struct {
	mu      sync.Mutex
	tokens  Tokens
	changed bool
}

func NewSession(t Tokens) *Session {
	return &Session{tokens: t}
}

func (s *Session) Tokens(context.Context) Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

func (s *Session) SetTokens(_ context.Context, t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens != t {
		s.tokens = t
		s.changed = true
	}
}

func (s *Session) Clear(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tokens.Empty() {
		s.tokens = Tokens{}
		s.changed = true
	}
}

// Snapshot returns the current pair and whether it differs from what the session started with.
func (s *Session) Snapshot() (Tokens, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens, s.changed
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) *Session {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// ContextCredentials resolves the Session carried by ctx and falls back to
// Fallback (which may be nil) outside a request.
type ContextCredentials struct {
	Fallback CredentialProvider
}

func (c ContextCredentials) resolve(ctx context.Context) CredentialProvider {
	if s := SessionFrom(ctx); s != nil {
		return s
	}
	return c.Fallback
}

func (c ContextCredentials) Tokens(ctx context.Context) Tokens {
	if p := c.resolve(ctx); p != nil {
		return p.Tokens(ctx)
	}
	return Tokens{}
}

func (c ContextCredentials) SetTokens(ctx context.Context, t Tokens) {
	if p := c.resolve(ctx); p != nil {
		p.SetTokens(ctx, t)
	}
}

func (c ContextCredentials) Clear(ctx context.Context) {
	if p := c.resolve(ctx); p != nil {
		p.Clear(ctx)
	}
}
