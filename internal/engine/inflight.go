package engine

import (
	"context"
	"sync"
)

// inflightGate serializes analysis runs per normalized URL within this
// process. The first caller for a URL is the leader; later callers
// block until the leader releases, then get their own slot so they can
// re-check the store before doing any work.
type inflightGate struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newInflightGate() *inflightGate {
	return &inflightGate{slots: make(map[string]chan struct{})}
}

// acquire takes the slot for the URL, waiting for any current holder
// first. leader is true when no one held the slot. The returned
// release function must be called exactly once; a nil release means
// the context was canceled while waiting.
func (g *inflightGate) acquire(ctx context.Context, url string) (release func(), leader bool) {
	leader = true
	for {
		g.mu.Lock()
		current, held := g.slots[url]
		if !held {
			done := make(chan struct{})
			g.slots[url] = done
			g.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					g.mu.Lock()
					delete(g.slots, url)
					g.mu.Unlock()
					close(done)
				})
			}, leader
		}
		g.mu.Unlock()

		leader = false
		select {
		case <-current:
		case <-ctx.Done():
			return nil, false
		}
	}
}
