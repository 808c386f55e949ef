package lifecycle

import (
	"context"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// InflightTracker counts requests currently inside a handler so shutdown can
// wait for them.
type InflightTracker struct {
	mu    sync.Mutex
	count int
	idle  chan struct{}
}

func NewInflightTracker() *InflightTracker {
	idle := make(chan struct{})
	close(idle)
	return &InflightTracker{idle: idle}
}

// Begin marks one request as started. The returned func ends it and is safe
// to call more than once.
func (t *InflightTracker) Begin() func() {
	t.mu.Lock()
	if t.count == 0 {
		t.idle = make(chan struct{})
	}
	t.count++
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.count--
			if t.count == 0 {
				close(t.idle)
			}
		})
	}
}

func (t *InflightTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Wait blocks until no request is in flight or ctx is done.
func (t *InflightTracker) Wait(ctx context.Context) error {
	t.mu.Lock()
	idle := t.idle
	t.mu.Unlock()

	select {
	case <-idle:
		return nil
	default:
	}
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Middleware wraps every incoming request in Begin/end.
func (t *InflightTracker) Middleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			done := t.Begin()
			defer done()
			return next(ctx, method, req)
		}
	}
}
