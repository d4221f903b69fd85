package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/upload"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubSessionIsolationAndOrdering(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	sessA := uuid.NewString()
	sessB := uuid.NewString()

	clientA := hub.NewSSEClient(sessA)
	clientB := hub.NewSSEClient(sessB)

	hub.Broadcast(SSEMessage{Channel: sessA, Event: SSEEventUploadStateChanged, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: sessA, Event: SSEEventUploadCompleted, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventUploadStateChanged {
		t.Fatalf("first event: want=%s got=%s", SSEEventUploadStateChanged, got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventUploadCompleted {
		t.Fatalf("second event: want=%s got=%s", SSEEventUploadCompleted, got.Event)
	}
	select {
	case msg := <-clientB.Outbound:
		t.Fatalf("session B received session A message: %+v", msg)
	default:
	}
}

func TestSSEHubCloseClientIsIdempotent(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	sess := uuid.NewString()
	client := hub.NewSSEClient(sess)
	if got := hub.Subscribers(sess); got != 1 {
		t.Fatalf("subscribers: want=1 got=%d", got)
	}

	hub.CloseClient(client)
	hub.CloseClient(client)
	if got := hub.Subscribers(sess); got != 0 {
		t.Fatalf("subscribers after close: want=0 got=%d", got)
	}
	if _, ok := <-client.Outbound; ok {
		t.Fatalf("outbound should be closed")
	}

	// Broadcasting to a channel with no subscribers must not panic.
	hub.Broadcast(SSEMessage{Channel: sess, Event: SSEEventSessionEnded})

	reconnect := hub.NewSSEClient(sess)
	hub.Broadcast(SSEMessage{Channel: sess, Event: SSEEventUploadFailed})
	if got := recvMessage(t, reconnect.Outbound, time.Second); got.Event != SSEEventUploadFailed {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventUploadFailed, got.Event)
	}
}

func TestSSEHubDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t), WithBuffer(1))
	sess := uuid.NewString()
	client := hub.NewSSEClient(sess)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			hub.Broadcast(SSEMessage{Channel: sess, Event: SSEEventUploadStateChanged, Data: i})
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("broadcast blocked on a full buffer")
	}
	if got := len(client.Outbound); got != 1 {
		t.Fatalf("buffered: want=1 got=%d", got)
	}
}

func TestSSEHubServeHTTPWritesEvents(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t), WithHeartbeat(time.Hour))
	sess := uuid.NewString()
	client := hub.NewSSEClient(sess)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	served := make(chan struct{})
	go func() {
		defer close(served)
		hub.ServeHTTP(rec, req, client)
	}()

	hub.Broadcast(SSEMessage{Channel: sess, Event: SSEEventUploadCompleted, Data: map[string]any{"field": "thumbnail"}})
	deadline := time.Now().Add(time.Second)
	for len(client.Outbound) > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-served

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: want=text/event-stream got=%s", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: UploadCompleted\n") {
		t.Fatalf("missing event line in %q", body)
	}
	if !strings.Contains(body, `"field":"thumbnail"`) {
		t.Fatalf("missing data in %q", body)
	}
}

func TestUploadMessageClassification(t *testing.T) {
	cases := []struct {
		state upload.State
		want  SSEEvent
	}{
		{upload.State{Uploading: true, Progress: 40}, SSEEventUploadStateChanged},
		{upload.State{Progress: 100, URL: "https://cdn/x.mp4"}, SSEEventUploadCompleted},
		{upload.State{Error: "boom"}, SSEEventUploadFailed},
		{upload.State{URL: "https://cdn/x.mp4"}, SSEEventUploadStateChanged},
	}
	for _, tc := range cases {
		msg := UploadMessage(upload.SessionEvent{SessionID: "s1", Event: upload.Event{Field: "f", State: tc.state}})
		if msg.Event != tc.want {
			t.Fatalf("state %+v: want=%s got=%s", tc.state, tc.want, msg.Event)
		}
		if msg.Channel != "s1" {
			t.Fatalf("channel: want=s1 got=%s", msg.Channel)
		}
	}
}
