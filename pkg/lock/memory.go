package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker is an in-process keyed mutex. It only serializes callers
// inside one replica.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]chan struct{}), wait: wait}
}

func (l *MemoryLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *MemoryLocker) Acquire(ctx context.Context, keys ...string) (Release, error) {
	keys = normalize(keys)

	waitCtx, cancel := waitContext(ctx, l.wait)
	defer cancel()

	held := make([]chan struct{}, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
		held = nil
	}

	for _, key := range keys {
		ch := l.slot(key)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-waitCtx.Done():
			release()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, busy(key, nil)
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}
