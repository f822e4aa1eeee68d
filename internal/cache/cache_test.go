package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, nil))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

type payload struct {
	Value string
}

func fetchOnce(value string, calls *atomic.Int32) Fetcher[payload] {
	return func(ctx context.Context) (*payload, error) {
		calls.Add(1)
		return &payload{Value: value}, nil
	}
}

func TestGetCachesWithinTTL(t *testing.T) {
	c := New[payload]("test", time.Minute, testLogger())
	var calls atomic.Int32

	ctx := context.Background()
	first, err := c.Get(ctx, "k", fetchOnce("v1", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v1", first.Value)

	second, err := c.Get(ctx, "k", fetchOnce("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v1", second.Value, "read within TTL must not refetch")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetRefetchesAfterInvalidate(t *testing.T) {
	c := New[payload]("test", time.Minute, testLogger())
	var calls atomic.Int32

	ctx := context.Background()
	_, err := c.Get(ctx, "k", fetchOnce("v1", &calls))
	require.NoError(t, err)

	c.Invalidate("k")

	snap := c.Peek("k")
	assert.Equal(t, StatusReady, snap.Status, "invalidation keeps data renderable")
	require.NotNil(t, snap.Data)
	assert.Equal(t, "v1", snap.Data.Value)

	got, err := c.Get(ctx, "k", fetchOnce("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Value)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFailedRefetchRetainsData(t *testing.T) {
	c := New[payload]("test", time.Minute, testLogger())
	ctx := context.Background()

	_, err := c.Get(ctx, "k", func(ctx context.Context) (*payload, error) {
		return &payload{Value: "good"}, nil
	})
	require.NoError(t, err)

	c.Invalidate("k")

	upstreamErr := errors.New("upstream down")
	stale, err := c.Get(ctx, "k", func(ctx context.Context) (*payload, error) {
		return nil, upstreamErr
	})
	require.ErrorIs(t, err, upstreamErr)
	require.NotNil(t, stale, "failed refetch must return last-known-good data")
	assert.Equal(t, "good", stale.Value)

	snap := c.Peek("k")
	assert.Equal(t, StatusReady, snap.Status)
	assert.ErrorIs(t, snap.Err, upstreamErr)
	require.NotNil(t, snap.Data)
}

func TestInitialFetchFailure(t *testing.T) {
	c := New[payload]("test", time.Minute, testLogger())
	ctx := context.Background()

	boom := errors.New("boom")
	data, err := c.Get(ctx, "k", func(ctx context.Context) (*payload, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, data)

	snap := c.Peek("k")
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Nil(t, snap.Data)
}

func TestConcurrentReadsDeduplicate(t *testing.T) {
	c := New[payload]("test", time.Minute, testLogger())

	var calls atomic.Int32
	gate := make(chan struct{})
	fetch := func(ctx context.Context) (*payload, error) {
		calls.Add(1)
		<-gate
		return &payload{Value: "shared"}, nil
	}

	const readers = 8
	var wg sync.WaitGroup
	results := make([]*payload, readers)
	errs := make([]error, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Get(context.Background(), "k", fetch)
		}(i)
	}

	// Let all readers pile onto the in-flight fetch, then release it.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent identical reads must share one fetch")
	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Equal(t, "shared", results[i].Value)
	}
}

func TestInvalidateDuringInFlightFetchKeepsEntryStale(t *testing.T) {
	c := New[payload]("test", time.Minute, testLogger())

	var calls atomic.Int32
	started := make(chan struct{})
	gate := make(chan struct{})

	fetchGated := func(ctx context.Context) (*payload, error) {
		calls.Add(1)
		close(started)
		<-gate
		return &payload{Value: "pre-mutation"}, nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		got, err := c.Get(context.Background(), "k", fetchGated)
		assert.NoError(t, err)
		assert.Equal(t, "pre-mutation", got.Value)
	}()

	// A write lands while the read fetch is still in flight.
	<-started
	c.Invalidate("k")
	close(gate)
	<-done

	// The completed fetch predates the write; it must not stamp the entry
	// fresh. The next read has to hit the source again.
	got, err := c.Get(context.Background(), "k", fetchOnce("post-mutation", &calls))
	require.NoError(t, err)
	assert.Equal(t, "post-mutation", got.Value)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPeekDoesNotFetch(t *testing.T) {
	c := New[payload]("test", time.Minute, testLogger())

	snap := c.Peek("never-fetched")
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Nil(t, snap.Data)
	assert.False(t, snap.Loading)
}

func TestDropRemovesEntry(t *testing.T) {
	c := New[payload]("test", time.Minute, testLogger())
	ctx := context.Background()

	var calls atomic.Int32
	_, err := c.Get(ctx, "k", fetchOnce("v1", &calls))
	require.NoError(t, err)

	c.Drop("k")

	snap := c.Peek("k")
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Nil(t, snap.Data)
}

func TestTTLExpiryTriggersRefetch(t *testing.T) {
	c := New[payload]("test", 10*time.Millisecond, testLogger())
	ctx := context.Background()

	var calls atomic.Int32
	_, err := c.Get(ctx, "k", fetchOnce("v1", &calls))
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	got, err := c.Get(ctx, "k", fetchOnce("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Value)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidationBusFansOut(t *testing.T) {
	bus := NewInvalidationBus()

	var mu sync.Mutex
	var got []string
	bus.Subscribe(func(key string) {
		mu.Lock()
		got = append(got, "a:"+key)
		mu.Unlock()
	})
	bus.Subscribe(func(key string) {
		mu.Lock()
		got = append(got, "b:"+key)
		mu.Unlock()
	})

	bus.Publish("cart:sess-1")

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a:cart:sess-1", "b:cart:sess-1"}, got)
}

func TestBusDrivesCacheInvalidation(t *testing.T) {
	c := New[payload]("test", time.Minute, testLogger())
	bus := NewInvalidationBus()
	bus.Subscribe(c.Invalidate)

	ctx := context.Background()
	var calls atomic.Int32
	_, err := c.Get(ctx, "k", fetchOnce("v1", &calls))
	require.NoError(t, err)

	bus.Publish("k")

	got, err := c.Get(ctx, "k", fetchOnce("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Value)
}
