package bus

import (
	"context"
	"testing"

	"github.com/yungbote/facilitator-console/internal/realtime"
)

func TestLocalBusForwardsUntilCanceled(t *testing.T) {
	b := NewLocalBus()
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	var got []realtime.SSEMessage
	if err := b.StartForwarder(ctx, func(m realtime.SSEMessage) { got = append(got, m) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}

	if err := b.Publish(context.Background(), realtime.SSEMessage{Channel: "s", Event: realtime.SSEEventUploadStateChanged}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	cancel()
	_ = b.Publish(context.Background(), realtime.SSEMessage{Channel: "s", Event: realtime.SSEEventUploadCompleted})

	if len(got) != 1 {
		t.Fatalf("forwarded: want=1 got=%d", len(got))
	}
	if got[0].Event != realtime.SSEEventUploadStateChanged {
		t.Fatalf("event: want=%s got=%s", realtime.SSEEventUploadStateChanged, got[0].Event)
	}
}

func TestLocalBusClosed(t *testing.T) {
	b := NewLocalBus()
	_ = b.Close()
	if err := b.Publish(context.Background(), realtime.SSEMessage{Channel: "s"}); err == nil {
		t.Fatalf("publish after close: want error")
	}
	if err := b.StartForwarder(context.Background(), func(realtime.SSEMessage) {}); err == nil {
		t.Fatalf("forwarder after close: want error")
	}
}

func TestRedisBusRequiresAddr(t *testing.T) {
	if _, err := NewRedisBus(context.Background(), nil, RedisConfig{}); err == nil {
		t.Fatalf("nil logger: want error")
	}
}
