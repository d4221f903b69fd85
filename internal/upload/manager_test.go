package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/facilitator-console/internal/platform/objectstore"
)

// memStore reads bodies in small chunks so progress is reported several times.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failFor map[string]error
	gate    map[string]chan struct{}
	delErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, failFor: map[string]error{}, gate: map[string]chan struct{}{}}
}

func (s *memStore) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	s.mu.Lock()
	gate := s.gate[baseName(key)]
	failErr := s.failFor[baseName(key)]
	s.mu.Unlock()

	var buf bytes.Buffer
	chunk := make([]byte, 3)
	for {
		n, err := body.Read(chunk)
		buf.Write(chunk[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if failErr != nil {
		return failErr
	}
	s.mu.Lock()
	s.objects[key] = buf.Bytes()
	s.mu.Unlock()
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return s.delErr
}

func (s *memStore) PublicURL(key string) string {
	return objectstore.S3PublicURL("bucket", "us-east-1", key)
}

func (s *memStore) KeyFromURL(rawURL string) (string, error) {
	return objectstore.S3KeyFromURL("bucket", "us-east-1", rawURL)
}

// baseName strips the "{folder}/{millis}-" prefix of an object key.
func baseName(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		key = key[i+1:]
	}
	if i := strings.Index(key, "-"); i >= 0 {
		key = key[i+1:]
	}
	return key
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) observe(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) forField(key string) []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []State
	for _, ev := range r.events {
		if ev.Field == key {
			out = append(out, ev.State)
		}
	}
	return out
}

func file(name, content string) File {
	return File{Name: name, Size: int64(len(content)), Body: strings.NewReader(content)}
}

func TestUploadProgressIsMonotonicAndResets(t *testing.T) {
	store := newMemStore()
	rec := &recorder{}
	m := NewManager(nil, store, Config{ResetDelay: 20 * time.Millisecond}, rec.observe)

	var reported []int
	url, err := m.UploadFile(context.Background(), file("intro.mp4", strings.Repeat("v", 20)), "courses/videos", "module-0-video-0", func(p int) {
		reported = append(reported, p)
	})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if !strings.HasPrefix(url, "https://bucket.s3.us-east-1.amazonaws.com/courses/videos/") || !strings.HasSuffix(url, "-intro.mp4") {
		t.Fatalf("url: got=%q", url)
	}
	for i := 1; i < len(reported); i++ {
		if reported[i] <= reported[i-1] {
			t.Fatalf("progress not monotonic: %v", reported)
		}
	}
	if reported[len(reported)-1] != 100 {
		t.Fatalf("final progress: want=100 got=%v", reported)
	}
	for _, p := range reported[:len(reported)-1] {
		if p > 99 {
			t.Fatalf("progress before completion exceeded 99: %v", reported)
		}
	}
	if s := m.State("module-0-video-0"); s.Progress != 100 || s.URL != url || s.Uploading {
		t.Fatalf("state after upload: got=%+v", s)
	}

	deadline := time.Now().Add(time.Second)
	for m.State("module-0-video-0").Progress != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("progress never reset")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if s := m.State("module-0-video-0"); s.URL != url || s.FileName != "intro.mp4" {
		t.Fatalf("reset must keep url: got=%+v", s)
	}
}

func TestConcurrentUploadsAreIsolatedPerField(t *testing.T) {
	store := newMemStore()
	store.failFor["b.pdf"] = errors.New("access denied")
	rec := &recorder{}
	m := NewManager(nil, store, Config{ResetDelay: time.Hour}, rec.observe)

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("f%d.mp4", i)
			if i == 1 {
				name = "b.pdf"
			}
			_, results[i] = m.UploadFile(context.Background(), file(name, strings.Repeat("x", 10+i)), "v", fmt.Sprintf("field-%d", i), nil)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		key := fmt.Sprintf("field-%d", i)
		want := fmt.Sprintf("f%d.mp4", i)
		if i == 1 {
			want = "b.pdf"
		}
		for _, s := range rec.forField(key) {
			if s.FileName != want {
				t.Fatalf("%s observed state of %q", key, s.FileName)
			}
			if s.URL != "" && !strings.HasSuffix(s.URL, "-"+want) {
				t.Fatalf("%s observed foreign url %q", key, s.URL)
			}
		}
		s := m.State(key)
		if i == 1 {
			if results[i] == nil || s.Error != "access denied" || s.URL != "" || s.Uploading {
				t.Fatalf("failed field: err=%v state=%+v", results[i], s)
			}
			continue
		}
		if results[i] != nil || s.Error != "" || s.Progress != 100 {
			t.Fatalf("%s: err=%v state=%+v", key, results[i], s)
		}
	}
}

func TestAssignWinsOverInFlightUpload(t *testing.T) {
	store := newMemStore()
	gate := make(chan struct{})
	store.gate["slow.mp4"] = gate
	m := NewManager(nil, store, Config{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := m.UploadFile(context.Background(), file("slow.mp4", "abcdef"), "v", "preview_video", nil)
		done <- err
	}()
	waitFor(t, func() bool { return m.State("preview_video").Uploading })

	m.Assign("preview_video", "https://cdn.example.com/picked.mp4")
	close(gate)

	if err := <-done; !errors.Is(err, ErrSuperseded) && !errors.Is(err, context.Canceled) {
		t.Fatalf("in-flight result: want superseded/canceled got=%v", err)
	}
	if s := m.State("preview_video"); s.URL != "https://cdn.example.com/picked.mp4" || s.Uploading || s.Error != "" {
		t.Fatalf("later edit must win: got=%+v", s)
	}
}

func TestCancelUploadResetsToIdle(t *testing.T) {
	store := newMemStore()
	store.gate["big.mov"] = make(chan struct{})
	m := NewManager(nil, store, Config{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := m.UploadFile(context.Background(), file("big.mov", "0123456789"), "v", "field", nil)
		done <- err
	}()
	waitFor(t, func() bool { return m.State("field").Uploading })

	m.CancelUpload("field")
	if s := m.State("field"); s != (State{}) {
		t.Fatalf("after cancel: want idle got=%+v", s)
	}
	select {
	case err := <-done:
		if !errors.Is(err, ErrSuperseded) {
			t.Fatalf("cancelled upload: want ErrSuperseded got=%v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("cancel did not stop the transfer")
	}
}

func TestRemoveFileClearsStateEvenWhenDeleteFails(t *testing.T) {
	store := newMemStore()
	store.delErr = errors.New("boom")
	m := NewManager(nil, store, Config{ResetDelay: time.Hour}, nil)

	url, err := m.UploadFile(context.Background(), file("notes.pdf", "pdf"), "notes", "module-1-note", nil)
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	m.RemoveFile(context.Background(), "module-1-note", "")
	if s := m.State("module-1-note"); s != (State{}) {
		t.Fatalf("after remove: want idle got=%+v", s)
	}
	key, _ := objectstore.S3KeyFromURL("bucket", "us-east-1", url)
	if len(store.deleted) != 1 || store.deleted[0] != key {
		t.Fatalf("deleted: want=[%s] got=%v", key, store.deleted)
	}
}

func TestPoolKeepsOneManagerPerSession(t *testing.T) {
	var got []SessionEvent
	var mu sync.Mutex
	p := NewPool(nil, newMemStore(), Config{ResetDelay: time.Hour}, func(ev SessionEvent) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})
	a, b := p.Get("s1"), p.Get("s2")
	if a == b || p.Get("s1") != a {
		t.Fatalf("pool must return a stable manager per session")
	}
	b.Assign("cover", "https://x/y.png")
	mu.Lock()
	if len(got) != 1 || got[0].SessionID != "s2" || got[0].Field != "cover" {
		t.Fatalf("session events: got=%+v", got)
	}
	mu.Unlock()

	p.now = func() time.Time { return time.Now().Add(time.Hour) }
	if n := p.Sweep(time.Minute); n != 2 || p.Len() != 0 {
		t.Fatalf("Sweep: removed=%d left=%d", n, p.Len())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
