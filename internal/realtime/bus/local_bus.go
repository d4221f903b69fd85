package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/facilitator-console/internal/realtime"
)

// localBus delivers in-process for single-replica deployments.
type localBus struct {
	mu     sync.RWMutex
	subs   []func(realtime.SSEMessage)
	closed bool
}

func NewLocalBus() Bus { return &localBus{} }

func (b *localBus) Publish(_ context.Context, msg realtime.SSEMessage) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("local SSE bus closed")
	}
	for _, fn := range b.subs {
		fn(msg)
	}
	return nil
}

func (b *localBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("local SSE bus closed")
	}
	b.subs = append(b.subs, func(m realtime.SSEMessage) {
		if ctx.Err() == nil {
			onMsg(m)
		}
	})
	return nil
}

func (b *localBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = nil
	return nil
}
