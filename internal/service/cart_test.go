package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/notify"
	apperrors "github.com/YousefAboschwaly/ecommerce-V2/pkg/errors"
)

func TestCurrentServesFromCache(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	f.api.On("GetCart", mock.Anything, "tok-abc").
		Return(cartWith(line("line-1", "prod-42", 1)), nil).Once()

	first, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Identical read within TTL must not hit the upstream again.
	second, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	f.api.AssertNumberOfCalls(t, "GetCart", 1)
}

func TestCurrentCapturesCartOwner(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	f.api.On("GetCart", mock.Anything, "tok-abc").Return(cartWith(), nil).Once()

	_, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)

	stored, err := f.sessions.Get(ctx, f.sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner-9", stored.CartOwnerID)
}

func TestAddInvalidatesAndRefetches(t *testing.T) {
	f := newCartFixture()
	ctx, collector := notify.WithCollector(context.Background())

	f.api.On("GetCart", mock.Anything, "tok-abc").
		Return(cartWith(), nil).Once()
	f.api.On("AddCartItem", mock.Anything, "tok-abc", "prod-42").Return(nil).Once()
	f.api.On("GetCart", mock.Anything, "tok-abc").
		Return(cartWith(line("line-1", "prod-42", 1)), nil).Once()

	before, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)
	assert.True(t, before.IsEmpty())

	require.NoError(t, f.svc.Add(ctx, f.sess, "prod-42"))

	// The mutation never patched the cache; the refetch shows the item.
	after, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)
	require.NotNil(t, after.FindItemByProduct("prod-42"))

	assert.Contains(t, f.events.recorded(), "cart.item_added")

	notices := collector.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, notify.LevelSuccess, notices[0].Level)

	f.api.AssertExpectations(t)
}

func TestFailedAddLeavesCacheIntact(t *testing.T) {
	f := newCartFixture()
	ctx, collector := notify.WithCollector(context.Background())

	cached := cartWith(line("line-1", "prod-1", 2))
	f.api.On("GetCart", mock.Anything, "tok-abc").Return(cached, nil).Once()
	f.api.On("AddCartItem", mock.Anything, "tok-abc", "prod-42").
		Return(errors.New("upstream rejected")).Once()

	_, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)

	err = f.svc.Add(ctx, f.sess, "prod-42")
	require.Error(t, err)

	// No invalidation happened: the next read is still a cache hit.
	got, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, cached, got)
	f.api.AssertNumberOfCalls(t, "GetCart", 1)

	assert.Empty(t, f.events.recorded())

	notices := collector.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, notify.LevelError, notices[0].Level)
}

func TestUpdateQuantityRejectsBelowOne(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	for _, count := range []int{0, -1, -10} {
		err := f.svc.UpdateQuantity(ctx, f.sess, "line-1", count)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	}

	// The rejection happens before any upstream call.
	f.api.AssertNotCalled(t, "UpdateCartItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecrementAboveOneUpdatesQuantity(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	f.api.On("GetCart", mock.Anything, "tok-abc").
		Return(cartWith(line("line-1", "prod-42", 3)), nil).Once()
	f.api.On("UpdateCartItem", mock.Anything, "tok-abc", "line-1", 2).Return(nil).Once()

	require.NoError(t, f.svc.DecrementQuantity(ctx, f.sess, "line-1"))

	f.api.AssertExpectations(t)
	f.api.AssertNotCalled(t, "RemoveCartItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestDecrementAtOneRemovesLine(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	f.api.On("GetCart", mock.Anything, "tok-abc").
		Return(cartWith(line("line-1", "prod-42", 1)), nil).Once()
	f.api.On("RemoveCartItem", mock.Anything, "tok-abc", "line-1").Return(nil).Once()

	require.NoError(t, f.svc.DecrementQuantity(ctx, f.sess, "line-1"))

	// The floor rule: never a quantity-zero update.
	f.api.AssertNotCalled(t, "UpdateCartItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Contains(t, f.events.recorded(), "cart.item_removed")
}

func TestDecrementUnknownLine(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	f.api.On("GetCart", mock.Anything, "tok-abc").
		Return(cartWith(line("line-1", "prod-42", 2)), nil).Once()

	err := f.svc.DecrementQuantity(ctx, f.sess, "line-404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestConcurrentRemoveOfSameLine(t *testing.T) {
	// Two tabs remove the same line. The first wins; the second gets the
	// upstream 404 surfaced as an error, and the refetch converges both
	// views on the true server state.
	f := newCartFixture()
	ctx := context.Background()

	f.api.On("RemoveCartItem", mock.Anything, "tok-abc", "line-1").Return(nil).Once()
	f.api.On("RemoveCartItem", mock.Anything, "tok-abc", "line-1").
		Return(apperrors.NotFound("cart line", "line-1")).Once()
	f.api.On("GetCart", mock.Anything, "tok-abc").Return(cartWith(), nil)

	require.NoError(t, f.svc.Remove(ctx, f.sess, "line-1"))

	err := f.svc.Remove(ctx, f.sess, "line-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	got, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestOverlappingRemovesOfDifferentLines(t *testing.T) {
	// Two removes of different lines fired without awaiting each other. Both
	// writes must reach the upstream, and the converged read after both land
	// contains neither line.
	f := newCartFixture()
	ctx := context.Background()

	f.api.On("GetCart", mock.Anything, "tok-abc").
		Return(cartWith(line("line-1", "prod-1", 1), line("line-2", "prod-2", 2)), nil).Once()

	entered := make(chan string, 2)
	release := make(chan struct{})
	holdUntilReleased := func(args mock.Arguments) {
		entered <- args.String(2)
		<-release
	}
	f.api.On("RemoveCartItem", mock.Anything, "tok-abc", "line-1").
		Run(holdUntilReleased).Return(nil).Once()
	f.api.On("RemoveCartItem", mock.Anything, "tok-abc", "line-2").
		Run(holdUntilReleased).Return(nil).Once()
	f.api.On("GetCart", mock.Anything, "tok-abc").Return(cartWith(), nil)

	before, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)
	require.Len(t, before.Items, 2)

	done := make(chan error, 2)
	go func() { done <- f.svc.Remove(ctx, f.sess, "line-1") }()
	go func() { done <- f.svc.Remove(ctx, f.sess, "line-2") }()

	// Both writes are in flight before either is allowed to complete.
	first, second := <-entered, <-entered
	assert.ElementsMatch(t, []string{"line-1", "line-2"}, []string{first, second})
	close(release)

	require.NoError(t, <-done)
	require.NoError(t, <-done)

	got, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)
	assert.Nil(t, got.FindItem("line-1"))
	assert.Nil(t, got.FindItem("line-2"))
	assert.True(t, got.IsEmpty())

	f.api.AssertExpectations(t)
}

func TestClearCart(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	f.api.On("ClearCart", mock.Anything, "tok-abc").Return(nil).Once()

	require.NoError(t, f.svc.Clear(ctx, f.sess))
	assert.Contains(t, f.events.recorded(), "cart.cleared")
}

func TestMutatingFlagDuringWrite(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	f.api.On("AddCartItem", mock.Anything, "tok-abc", "prod-42").
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil).Once()
	f.api.On("GetCart", mock.Anything, "tok-abc").Return(cartWith(), nil).Maybe()

	assert.False(t, f.svc.Mutating(f.sess.ID))

	done := make(chan error, 1)
	go func() { done <- f.svc.Add(ctx, f.sess, "prod-42") }()

	<-entered
	assert.True(t, f.svc.Mutating(f.sess.ID), "write in flight must set the mutating flag")

	close(release)
	require.NoError(t, <-done)

	// The flag clears once the write lands.
	require.Eventually(t, func() bool { return !f.svc.Mutating(f.sess.ID) },
		time.Second, 5*time.Millisecond)
}

func TestFailedRefetchKeepsLastKnownCart(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	good := cartWith(line("line-1", "prod-42", 1))
	f.api.On("GetCart", mock.Anything, "tok-abc").Return(good, nil).Once()
	f.api.On("RemoveCartItem", mock.Anything, "tok-abc", "line-1").Return(nil).Once()
	f.api.On("GetCart", mock.Anything, "tok-abc").
		Return(nil, errors.New("upstream down")).Once()

	_, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove(ctx, f.sess, "line-1"))

	stale, err := f.svc.Current(ctx, f.sess)
	require.Error(t, err)
	require.NotNil(t, stale, "failed refetch must keep the last-known cart renderable")
	assert.Equal(t, good, stale)

	view := f.svc.View(f.sess)
	require.NotNil(t, view.Cart)
	assert.Error(t, view.Err)
}

func TestForgetSessionDropsCache(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	f.api.On("GetCart", mock.Anything, "tok-abc").
		Return(cartWith(line("line-1", "prod-42", 1)), nil).Once()

	_, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)

	f.svc.ForgetSession(f.sess.ID)

	view := f.svc.View(f.sess)
	assert.Nil(t, view.Cart)
}
