// Package trace provides request-scoped solve traces and parse
// memoization. A Trace travels with the request context; engine steps
// append human-readable lines to it, and repeated parses of the same
// equation within one request hit the cache instead of the parser.
package trace

import (
	"context"
	"fmt"
	"sync"
)

type ctxKey struct{}

// Trace collects solve steps and memoizes per-request work.
type Trace struct {
	mu    sync.Mutex
	steps []string
	cache sync.Map
}

// New creates an empty trace.
func New() *Trace {
	return &Trace{}
}

// FromContext extracts the Trace, or nil if not present.
func FromContext(ctx context.Context) *Trace {
	if ctx == nil {
		return nil
	}
	if tr, ok := ctx.Value(ctxKey{}).(*Trace); ok {
		return tr
	}

	return nil
}

// WithContext stores the trace in the context.
func WithContext(ctx context.Context, tr *Trace) context.Context {
	return context.WithValue(ctx, ctxKey{}, tr)
}

// Step appends a formatted step line. Safe for concurrent use.
func (t *Trace) Step(format string, args ...any) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, fmt.Sprintf(format, args...))
}

// Steps returns a copy of the recorded steps in order.
func (t *Trace) Steps() []string {
	if t == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(t.steps))
	copy(out, t.steps)

	return out
}

// GetOrCompute returns the cached value for key, computing and caching it
// on first use. Concurrent callers may both compute; the first stored value
// wins.
func (t *Trace) GetOrCompute(key string, compute func() (any, error)) (any, error) {
	if t == nil {
		return compute()
	}

	if cached, ok := t.cache.Load(key); ok {
		return cached, nil
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	actual, _ := t.cache.LoadOrStore(key, value)

	return actual, nil
}
