package service

import "sync"

// mutationTracker counts in-flight writes per session. The flag is separate
// from the cache's loading state: a read can be revalidating while no write
// is running, and vice versa. The UI uses it to disable cart controls while
// a write is pending.
type mutationTracker struct {
	mu       sync.Mutex
	inFlight map[string]int
}

func newMutationTracker() *mutationTracker {
	return &mutationTracker{inFlight: make(map[string]int)}
}

func (t *mutationTracker) begin(sessionID string) {
	t.mu.Lock()
	t.inFlight[sessionID]++
	t.mu.Unlock()
}

func (t *mutationTracker) end(sessionID string) {
	t.mu.Lock()
	t.inFlight[sessionID]--
	if t.inFlight[sessionID] <= 0 {
		delete(t.inFlight, sessionID)
	}
	t.mu.Unlock()
}

func (t *mutationTracker) active(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight[sessionID] > 0
}
