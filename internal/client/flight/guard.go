// Package flight provides non-blocking single-flight guards: at most one
// holder per key, later callers are turned away instead of queued.
package flight

import (
	"context"
	"errors"
	"sync"
)

// ErrHeld is returned when the key is already held.
var ErrHeld = errors.New("key already held")

// ReleaseFunc gives the key back. Calling it more than once is harmless.
type ReleaseFunc func(ctx context.Context) error

type Guard interface {
	TryAcquire(ctx context.Context, key string) (ReleaseFunc, error)
}

// LocalGuard guards keys within one process.
type LocalGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{held: make(map[string]struct{})}
}

func (g *LocalGuard) TryAcquire(ctx context.Context, key string) (ReleaseFunc, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[key]; ok {
		return nil, ErrHeld
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
		return nil
	}, nil
}
