package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/cache"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/domain"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/event"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/notify"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/session"
	apperrors "github.com/YousefAboschwaly/ecommerce-V2/pkg/errors"
)

// wishlistAPI is the slice of the commerce client the wishlist service uses.
type wishlistAPI interface {
	GetWishlist(ctx context.Context, token string) (*domain.Wishlist, error)
	AddWishlistItem(ctx context.Context, token, productID string) ([]string, error)
	RemoveWishlistItem(ctx context.Context, token, productID string) ([]string, error)
}

// WishlistKey returns the cache key for a session's wishlist.
func WishlistKey(sessionID string) string {
	return "wishlist:" + sessionID
}

// WishlistView mirrors CartView for the wishlist.
type WishlistView struct {
	Wishlist *domain.Wishlist
	Loading  bool
	Mutating bool
	Err      error
}

// WishlistService keeps a session's wishlist in sync with the commerce API,
// with the same invalidate-on-write discipline as the cart. Wishlist entries
// are addressed by product ID; there are no quantities.
type WishlistService struct {
	api      wishlistAPI
	cache    *cache.Cache[domain.Wishlist]
	bus      *cache.InvalidationBus
	events   event.Publisher
	notifier notify.Notifier
	logger   *slog.Logger
	tracker  *mutationTracker
}

// NewWishlistService creates a wishlist service and subscribes its cache to
// the invalidation bus.
func NewWishlistService(
	api wishlistAPI,
	c *cache.Cache[domain.Wishlist],
	bus *cache.InvalidationBus,
	events event.Publisher,
	notifier notify.Notifier,
	logger *slog.Logger,
) *WishlistService {
	bus.Subscribe(c.Invalidate)
	return &WishlistService{
		api:      api,
		cache:    c,
		bus:      bus,
		events:   events,
		notifier: notifier,
		logger:   logger,
		tracker:  newMutationTracker(),
	}
}

// Current returns the session's wishlist, served from cache when fresh.
func (s *WishlistService) Current(ctx context.Context, sess *session.Session) (*domain.Wishlist, error) {
	return s.cache.Get(ctx, WishlistKey(sess.ID), func(ctx context.Context) (*domain.Wishlist, error) {
		return s.api.GetWishlist(ctx, sess.Token)
	})
}

// View returns the wishlist's read state without blocking on a fetch.
func (s *WishlistService) View(sess *session.Session) WishlistView {
	snap := s.cache.Peek(WishlistKey(sess.ID))
	return WishlistView{
		Wishlist: snap.Data,
		Loading:  snap.Loading,
		Mutating: s.tracker.active(sess.ID),
		Err:      snap.Err,
	}
}

// Mutating reports whether a wishlist write is in flight for the session.
func (s *WishlistService) Mutating(sessionID string) bool {
	return s.tracker.active(sessionID)
}

// Add puts a product on the wishlist. Adding a product already present is a
// no-op upstream and still reported as success.
func (s *WishlistService) Add(ctx context.Context, sess *session.Session, productID string) error {
	if productID == "" {
		return apperrors.InvalidInput("product id is required")
	}

	s.tracker.begin(sess.ID)
	defer s.tracker.end(sess.ID)

	if _, err := s.api.AddWishlistItem(ctx, sess.Token, productID); err != nil {
		s.notifier.Error(ctx, "Error in adding product to Wishlist")
		return fmt.Errorf("add wishlist item: %w", err)
	}

	s.bus.Publish(WishlistKey(sess.ID))
	s.events.WishlistItemAdded(ctx, sess.ID, productID)
	s.notifier.Success(ctx, "Product added Successfully to your Wishlist")
	return nil
}

// Remove takes a product off the wishlist.
func (s *WishlistService) Remove(ctx context.Context, sess *session.Session, productID string) error {
	if productID == "" {
		return apperrors.InvalidInput("product id is required")
	}

	s.tracker.begin(sess.ID)
	defer s.tracker.end(sess.ID)

	if _, err := s.api.RemoveWishlistItem(ctx, sess.Token, productID); err != nil {
		s.notifier.Error(ctx, "Error in removing product from Wishlist")
		return fmt.Errorf("remove wishlist item: %w", err)
	}

	s.bus.Publish(WishlistKey(sess.ID))
	s.events.WishlistItemRemoved(ctx, sess.ID, productID)
	s.notifier.Success(ctx, "Product removed Successfully from your Wishlist")
	return nil
}

// ForgetSession drops the session's cached wishlist at logout.
func (s *WishlistService) ForgetSession(sessionID string) {
	s.cache.Drop(WishlistKey(sessionID))
}
