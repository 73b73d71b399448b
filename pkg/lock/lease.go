package lock

import (
	"context"
	"slices"
	"sync"
	"time"

	"turfslot/pkg/logger"

	"github.com/google/uuid"
)

const retryInterval = 25 * time.Millisecond

// leaseBackend stores expiring ownership records in a shared store.
type leaseBackend interface {
	tryAcquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	release(ctx context.Context, key, owner string) error
	// renew extends the lease and reports false once owner no longer holds key.
	renew(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
}

// leaseLocker polls a leaseBackend until every key is held or the wait
// budget runs out. Leases expire after ttl so a crashed replica cannot
// block a ground forever, and are renewed every ttl/3 while held so a slow
// commit keeps its ground.
type leaseLocker struct {
	backend leaseBackend
	ttl     time.Duration
	wait    time.Duration
	log     *logger.Logger
}

func (l *leaseLocker) Acquire(ctx context.Context, keys ...string) (Release, error) {
	keys = normalize(keys)
	owner := uuid.NewString()

	waitCtx, cancel := waitContext(ctx, l.wait)
	defer cancel()

	held := make([]string, 0, len(keys))
	release := func() {
		rctx, rcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer rcancel()
		for i := len(held) - 1; i >= 0; i-- {
			if err := l.backend.release(rctx, held[i], owner); err != nil {
				l.log.Warn("Failed to release claim lock, it will expire", "key", held[i], "error", err)
			}
		}
		held = nil
	}

	for _, key := range keys {
		if err := l.acquireOne(waitCtx, key, owner); err != nil {
			release()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, busy(key, err)
		}
		held = append(held, key)
	}

	stop := make(chan struct{})
	stopped := make(chan struct{})
	go l.keepAlive(slices.Clone(held), owner, stop, stopped)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-stopped
			release()
		})
	}, nil
}

func (l *leaseLocker) keepAlive(keys []string, owner string, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	interval := l.ttl / 3
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		for _, key := range keys {
			ok, err := l.backend.renew(ctx, key, owner, l.ttl)
			switch {
			case err != nil:
				l.log.Warn("Failed to renew claim lock", "key", key, "error", err)
			case !ok:
				l.log.Error("Claim lock lease lost while held", "key", key)
			}
		}
		cancel()
	}
}

func (l *leaseLocker) acquireOne(ctx context.Context, key, owner string) error {
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.backend.tryAcquire(ctx, key, owner, l.ttl)
		if err != nil && ctx.Err() == nil {
			l.log.Warn("Claim lock attempt failed", "key", key, "error", err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return err
			}
			return ErrBusy
		case <-ticker.C:
		}
	}
}
