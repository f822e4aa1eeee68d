package cache

import "sync"

// InvalidationBus decouples writers from caches. A mutation that succeeds
// publishes the affected key; every subscribed cache marks that key stale.
// Writers never reach into a cache directly, so adding a new cached view of
// the same data requires no changes on the write path.
type InvalidationBus struct {
	mu   sync.RWMutex
	subs []func(key string)
}

// NewInvalidationBus creates an empty bus.
func NewInvalidationBus() *InvalidationBus {
	return &InvalidationBus{}
}

// Subscribe registers a handler invoked synchronously for every published
// key. Subscriptions are expected at wiring time, before traffic flows.
func (b *InvalidationBus) Subscribe(fn func(key string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish notifies all subscribers that the given key is stale.
func (b *InvalidationBus) Publish(key string) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(key)
	}
}
