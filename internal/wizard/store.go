package wizard

import "sync"

// Store keeps one draft per browser session.
type Store struct {
	mu     sync.Mutex
	drafts map[string]*Wizard
}

func NewStore() *Store {
	return &Store{drafts: map[string]*Wizard{}}
}

// Get returns the session's draft, starting a fresh one if there is none.
func (s *Store) Get(sessionID string) *Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.drafts[sessionID]
	if !ok {
		w = New()
		s.drafts[sessionID] = w
	}
	return w
}

// Put replaces the session's draft (editing an existing course).
func (s *Store) Put(sessionID string, w *Wizard) {
	s.mu.Lock()
	s.drafts[sessionID] = w
	s.mu.Unlock()
}

func (s *Store) Discard(sessionID string) {
	s.mu.Lock()
	delete(s.drafts, sessionID)
	s.mu.Unlock()
}
