// Package lock serializes claim mutations per ground. Keys are always taken
// in sorted order so multi-ground commands cannot deadlock each other.
package lock

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	apperrors "turfslot/pkg/errors"
)

const ProgramsKey = "programs"

var ErrBusy = errors.New("lock is held by another claim command")

// Release frees every key taken by one Acquire. Safe to call more than once.
type Release func()

type Locker interface {
	Acquire(ctx context.Context, keys ...string) (Release, error)
}

func GroundKey(groundID string) string {
	return "ground:" + groundID
}

func GroundKeys(groundIDs ...string) []string {
	keys := make([]string, 0, len(groundIDs))
	for _, id := range groundIDs {
		keys = append(keys, GroundKey(id))
	}
	return keys
}

func normalize(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func busy(key string, cause error) error {
	if cause == nil {
		cause = ErrBusy
	}
	return apperrors.Wrap(cause, apperrors.CodeConflict, "ground is busy with another claim, retry", http.StatusConflict).
		WithDetails(map[string]any{"lock_key": key})
}

func waitContext(ctx context.Context, wait time.Duration) (context.Context, context.CancelFunc) {
	if wait <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, wait)
}
