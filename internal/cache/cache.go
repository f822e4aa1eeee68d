package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Status describes the lifecycle of a cache entry.
type Status int

const (
	// StatusIdle means the key has never been fetched.
	StatusIdle Status = iota
	// StatusLoading means the first fetch is in flight and no data exists yet.
	StatusLoading
	// StatusReady means data is available. It may be stale and carry a
	// refetch error alongside.
	StatusReady
	// StatusFailed means the initial fetch failed and there is no data.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a non-blocking view of a cache entry. Data may be non-nil even
// when Err is set: a failed refetch keeps the last-known-good value so
// callers can keep rendering while showing the error.
type Snapshot[T any] struct {
	Data      *T
	Loading   bool
	Err       error
	Status    Status
	FetchedAt time.Time
}

// Fetcher loads fresh data for a key from the source of truth.
type Fetcher[T any] func(ctx context.Context) (*T, error)

// Cache is a revalidating read cache over a remote source of truth. Reads
// within the TTL are served from memory; concurrent reads of the same expired
// key are deduplicated into a single upstream fetch. Invalidation marks a key
// stale without discarding its data, so the next read refetches while earlier
// snapshots stay renderable.
type Cache[T any] struct {
	name    string
	ttl     time.Duration
	logger  *slog.Logger
	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]*entry[T]
}

type entry[T any] struct {
	data      *T
	err       error
	status    Status
	loading   bool
	fetchedAt time.Time
	stale     bool
	// gen advances on every Invalidate. A fetch records it at start and may
	// only clear staleness if it is unchanged at completion; otherwise the
	// result predates a write and the next read must refetch.
	gen uint64
}

// New creates a cache. name labels metrics and log lines; ttl bounds how long
// a fetched value is served without revalidation.
func New[T any](name string, ttl time.Duration, logger *slog.Logger) *Cache[T] {
	return &Cache[T]{
		name:    name,
		ttl:     ttl,
		logger:  logger,
		entries: make(map[string]*entry[T]),
	}
}

// Get returns the value for key, fetching it if the entry is missing, stale,
// or invalidated. On fetch failure the previous value is retained and
// returned alongside the error; callers decide whether stale data is usable.
func (c *Cache[T]) Get(ctx context.Context, key string, fetch Fetcher[T]) (*T, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{status: StatusIdle}
		c.entries[key] = e
	}

	if e.status == StatusReady && !e.stale && time.Since(e.fetchedAt) < c.ttl {
		data := e.data
		c.mu.Unlock()
		cacheHits.WithLabelValues(c.name).Inc()
		return data, nil
	}

	e.loading = true
	if e.status == StatusIdle {
		e.status = StatusLoading
	}
	c.mu.Unlock()
	cacheMisses.WithLabelValues(c.name).Inc()

	v, err, shared := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		startGen := e.gen
		c.mu.Unlock()

		data, ferr := fetch(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		e.loading = false
		if ferr != nil {
			e.err = ferr
			if e.data == nil {
				e.status = StatusFailed
			}
			return nil, ferr
		}
		e.data = data
		e.err = nil
		e.stale = e.gen != startGen
		e.status = StatusReady
		e.fetchedAt = time.Now()
		return data, nil
	})

	if shared {
		cacheDeduped.WithLabelValues(c.name).Inc()
	}

	if err != nil {
		c.mu.Lock()
		stale := e.data
		c.mu.Unlock()

		c.logger.WarnContext(ctx, "cache fetch failed",
			slog.String("cache", c.name),
			slog.String("key", key),
			slog.Bool("stale_available", stale != nil),
			slog.String("error", err.Error()),
		)
		return stale, err
	}
	return v.(*T), nil
}

// Peek returns the current state of a key without triggering a fetch.
func (c *Cache[T]) Peek(key string) Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Snapshot[T]{Status: StatusIdle}
	}
	return Snapshot[T]{
		Data:      e.data,
		Loading:   e.loading,
		Err:       e.err,
		Status:    e.status,
		FetchedAt: e.fetchedAt,
	}
}

// Invalidate marks a key stale. The data stays in place for rendering; the
// next Get refetches. An in-flight fetch for the key is forgotten so the
// refetch observes the write that caused the invalidation.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		e.stale = true
		e.gen++
	}
	c.mu.Unlock()

	if ok {
		c.group.Forget(key)
		cacheInvalidations.WithLabelValues(c.name).Inc()
	}
}

// Drop removes a key entirely, data included. Used when the owning session
// ends and stale data must not leak to a new session.
func (c *Cache[T]) Drop(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	c.group.Forget(key)
}

// Name returns the cache's metric label.
func (c *Cache[T]) Name() string {
	return c.name
}
