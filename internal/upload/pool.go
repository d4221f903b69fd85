package upload

import (
	"sync"
	"time"

	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/platform/objectstore"
)

// SessionEvent is an upload Event tagged with the browser session it belongs to.
type SessionEvent struct {
	SessionID string
	Event
}

type poolEntry struct {
	manager  *Manager
	lastUsed time.Time
}

// Pool holds one Manager per browser session.
type Pool struct {
	log      *logger.Logger
	store    objectstore.Store
	cfg      Config
	observer func(SessionEvent)
	now      func() time.Time

	mu       sync.Mutex
	managers map[string]*poolEntry
}

func NewPool(log *logger.Logger, store objectstore.Store, cfg Config, observer func(SessionEvent)) *Pool {
	if log == nil {
		log = logger.NewNop()
	}
	return &Pool{
		log:      log,
		store:    store,
		cfg:      cfg,
		observer: observer,
		now:      time.Now,
		managers: map[string]*poolEntry{},
	}
}

func (p *Pool) Get(sessionID string) *Manager {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.managers[sessionID]
	if !ok {
		var obs Observer
		if p.observer != nil {
			obs = func(ev Event) { p.observer(SessionEvent{SessionID: sessionID, Event: ev}) }
		}
		e = &poolEntry{manager: NewManager(p.log.With("session_id", sessionID), p.store, p.cfg, obs)}
		p.managers[sessionID] = e
	}
	e.lastUsed = p.now()
	return e.manager
}

// Drop cancels the session's uploads and forgets it (logout).
func (p *Pool) Drop(sessionID string) {
	p.mu.Lock()
	e, ok := p.managers[sessionID]
	delete(p.managers, sessionID)
	p.mu.Unlock()
	if ok {
		e.manager.Close()
	}
}

// Sweep drops sessions idle for longer than idle and returns how many went.
func (p *Pool) Sweep(idle time.Duration) int {
	cutoff := p.now().Add(-idle)
	var stale []*Manager
	p.mu.Lock()
	for id, e := range p.managers {
		if e.lastUsed.Before(cutoff) {
			stale = append(stale, e.manager)
			delete(p.managers, id)
		}
	}
	p.mu.Unlock()
	for _, m := range stale {
		m.Close()
	}
	return len(stale)
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.managers)
}
