package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/platform/objectstore"
)

const DefaultResetDelay = time.Second

var (
	ErrNoStore    = errors.New("object storage not configured")
	ErrEmptyField = errors.New("field key required")
	// ErrSuperseded is returned when a later edit of the field replaced this upload.
	ErrSuperseded = errors.New("upload superseded by a later edit")
)

// State is the per-field upload state rendered next to a form input.
type State struct {
	Uploading bool   `json:"uploading"`
	Progress  int    `json:"progress"`
	Error     string `json:"error,omitempty"`
	URL       string `json:"url,omitempty"`
	FileName  string `json:"file_name,omitempty"`
}

type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

type Event struct {
	Field string `json:"field"`
	State State  `json:"state"`
}

type Observer func(Event)

// ProgressFunc receives whole percentages, each larger than the last.
type ProgressFunc func(percent int)

type Config struct {
	ResetDelay time.Duration
}

type field struct {
	state  State
	gen    uint64
	cancel context.CancelFunc
	reset  *time.Timer
}

// Manager tracks uploads for one browser session. Every field key has its own
// state and generation counter; results of superseded uploads are dropped.
type Manager struct {
	log      *logger.Logger
	store    objectstore.Store
	cfg      Config
	observer Observer
	now      func() time.Time

	mu     sync.Mutex
	fields map[string]*field
}

func NewManager(log *logger.Logger, store objectstore.Store, cfg Config, observer Observer) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.ResetDelay <= 0 {
		cfg.ResetDelay = DefaultResetDelay
	}
	return &Manager{
		log:      log.With("service", "UploadManager"),
		store:    store,
		cfg:      cfg,
		observer: observer,
		now:      time.Now,
		fields:   map[string]*field{},
	}
}

// fieldLocked returns the entry for key, creating it. m.mu must be held.
func (m *Manager) fieldLocked(key string) *field {
	f, ok := m.fields[key]
	if !ok {
		f = &field{}
		m.fields[key] = f
	}
	return f
}

// supersedeLocked invalidates whatever is in flight for f. m.mu must be held.
func (f *field) supersedeLocked() uint64 {
	f.gen++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if f.reset != nil {
		f.reset.Stop()
		f.reset = nil
	}
	return f.gen
}

func (m *Manager) publish(key string, s State) {
	if m.observer != nil {
		m.observer(Event{Field: key, State: s})
	}
}

// UploadFile stores file under folder and tracks it as fieldKey. It blocks until
// the object write returns and yields the public URL.
func (m *Manager) UploadFile(ctx context.Context, file File, folder, fieldKey string, onProgress ProgressFunc) (string, error) {
	if fieldKey == "" {
		return "", ErrEmptyField
	}
	if m.store == nil {
		return "", ErrNoStore
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.mu.Lock()
	f := m.fieldLocked(fieldKey)
	gen := f.supersedeLocked()
	f.cancel = cancel
	f.state = State{Uploading: true, Progress: 0, FileName: file.Name}
	started := f.state
	m.mu.Unlock()
	m.publish(fieldKey, started)

	key := objectstore.ObjectKey(folder, m.now(), file.Name)
	contentType := objectstore.ContentTypeFor(file.Name, file.ContentType)
	body := objectstore.NewProgressReader(file.Body, file.Size, func(read, total int64) {
		if total <= 0 {
			return
		}
		pct := int(read * 100 / total)
		if pct > 99 {
			pct = 99
		}
		m.advance(fieldKey, gen, pct, onProgress)
	})

	err := m.store.Put(ctx, key, body, file.Size, contentType)
	url := ""
	if err == nil {
		url = m.store.PublicURL(key)
	}

	m.mu.Lock()
	f = m.fieldLocked(fieldKey)
	if f.gen != gen {
		m.mu.Unlock()
		if err == nil {
			m.discard(key)
		}
		return "", ErrSuperseded
	}
	f.cancel = nil
	if err != nil {
		f.state = State{Uploading: false, Error: err.Error(), FileName: file.Name}
		failed := f.state
		m.mu.Unlock()
		m.log.Warn("upload failed", "field", fieldKey, "object_key", key, "error", err)
		m.publish(fieldKey, failed)
		return "", fmt.Errorf("upload %q: %w", file.Name, err)
	}
	f.state = State{Uploading: false, Progress: 100, URL: url, FileName: file.Name}
	done := f.state
	f.reset = time.AfterFunc(m.cfg.ResetDelay, func() { m.resetProgress(fieldKey, gen) })
	m.mu.Unlock()

	if onProgress != nil {
		onProgress(100)
	}
	m.publish(fieldKey, done)
	m.log.Debug("upload complete", "field", fieldKey, "object_key", key, "bytes", file.Size)
	return url, nil
}

// advance raises the field's progress; stale generations and regressions are ignored.
func (m *Manager) advance(fieldKey string, gen uint64, pct int, onProgress ProgressFunc) {
	m.mu.Lock()
	f, ok := m.fields[fieldKey]
	if !ok || f.gen != gen || !f.state.Uploading || pct <= f.state.Progress {
		m.mu.Unlock()
		return
	}
	f.state.Progress = pct
	s := f.state
	m.mu.Unlock()
	if onProgress != nil {
		onProgress(pct)
	}
	m.publish(fieldKey, s)
}

func (m *Manager) resetProgress(fieldKey string, gen uint64) {
	m.mu.Lock()
	f, ok := m.fields[fieldKey]
	if !ok || f.gen != gen {
		m.mu.Unlock()
		return
	}
	f.reset = nil
	f.state.Progress = 0
	s := f.state
	m.mu.Unlock()
	m.publish(fieldKey, s)
}

func (m *Manager) discard(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := m.store.Delete(ctx, key); err != nil {
		m.log.Warn("failed to delete superseded upload", "object_key", key, "error", err)
	}
}

// CancelUpload aborts the field's transfer if the storage client still can and
// resets the field to idle.
func (m *Manager) CancelUpload(fieldKey string) {
	m.mu.Lock()
	f, ok := m.fields[fieldKey]
	if !ok {
		m.mu.Unlock()
		return
	}
	f.supersedeLocked()
	f.state = State{}
	m.mu.Unlock()
	m.publish(fieldKey, State{})
}

// RemoveFile clears the field and deletes the stored object. fileURL defaults to
// the field's current URL. Storage failures are logged, never returned.
func (m *Manager) RemoveFile(ctx context.Context, fieldKey, fileURL string) {
	m.mu.Lock()
	if f, ok := m.fields[fieldKey]; ok {
		if fileURL == "" {
			fileURL = f.state.URL
		}
		f.supersedeLocked()
		f.state = State{}
	}
	m.mu.Unlock()
	m.publish(fieldKey, State{})

	if fileURL == "" || m.store == nil {
		return
	}
	key, err := m.store.KeyFromURL(fileURL)
	if err != nil {
		m.log.Warn("remove file: cannot derive object key", "field", fieldKey, "url", fileURL, "error", err)
		return
	}
	if err := m.store.Delete(ctx, key); err != nil {
		m.log.Warn("remove file: storage delete failed", "field", fieldKey, "object_key", key, "error", err)
	}
}

// Assign records a direct edit of the field. It wins over any upload still in flight.
func (m *Manager) Assign(fieldKey, url string) {
	m.mu.Lock()
	f := m.fieldLocked(fieldKey)
	f.supersedeLocked()
	f.state = State{URL: url}
	s := f.state
	m.mu.Unlock()
	m.publish(fieldKey, s)
}

func (m *Manager) State(fieldKey string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.fields[fieldKey]; ok {
		return f.state
	}
	return State{}
}

// States returns a snapshot of every tracked field.
func (m *Manager) States() map[string]State {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]State, len(m.fields))
	for k, f := range m.fields {
		out[k] = f.state
	}
	return out
}

// Close cancels every in-flight upload.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.fields {
		f.supersedeLocked()
	}
}
