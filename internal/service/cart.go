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

// cartAPI is the slice of the commerce client the cart service depends on.
type cartAPI interface {
	GetCart(ctx context.Context, token string) (*domain.Cart, error)
	AddCartItem(ctx context.Context, token, productID string) error
	UpdateCartItem(ctx context.Context, token, lineID string, count int) error
	RemoveCartItem(ctx context.Context, token, lineID string) error
	ClearCart(ctx context.Context, token string) error
}

// CartKey returns the cache key for a session's cart.
func CartKey(sessionID string) string {
	return "cart:" + sessionID
}

// CartView is the read contract for cart state: the last-known cart (possibly
// stale), whether a read is in flight, whether a write is in flight, and the
// last read error. Data and Err can both be set after a failed refetch.
type CartView struct {
	Cart     *domain.Cart
	Loading  bool
	Mutating bool
	Err      error
}

// CartService keeps a session's view of the cart in sync with the commerce
// API. The server cart is the only source of truth: every mutation is a
// remote write that, on success, publishes an invalidation so the next read
// refetches. Nothing is patched locally, so the view can never drift from a
// write the upstream rejected or rewrote.
type CartService struct {
	api      cartAPI
	cache    *cache.Cache[domain.Cart]
	bus      *cache.InvalidationBus
	sessions *session.Manager
	events   event.Publisher
	notifier notify.Notifier
	logger   *slog.Logger
	tracker  *mutationTracker
}

// NewCartService creates a cart service and subscribes its cache to the
// invalidation bus.
func NewCartService(
	api cartAPI,
	c *cache.Cache[domain.Cart],
	bus *cache.InvalidationBus,
	sessions *session.Manager,
	events event.Publisher,
	notifier notify.Notifier,
	logger *slog.Logger,
) *CartService {
	bus.Subscribe(c.Invalidate)
	return &CartService{
		api:      api,
		cache:    c,
		bus:      bus,
		sessions: sessions,
		events:   events,
		notifier: notifier,
		logger:   logger,
		tracker:  newMutationTracker(),
	}
}

// Current returns the session's cart, served from cache when fresh. The cart
// owner ID riding on the response is captured into the session for later
// order lookups. On a failed refetch the last-known cart is returned with
// the error.
func (s *CartService) Current(ctx context.Context, sess *session.Session) (*domain.Cart, error) {
	return s.cache.Get(ctx, CartKey(sess.ID), func(ctx context.Context) (*domain.Cart, error) {
		cart, err := s.api.GetCart(ctx, sess.Token)
		if err != nil {
			return nil, err
		}
		if err := s.sessions.SetCartOwner(ctx, sess.ID, cart.OwnerID); err != nil {
			// Owner capture is best-effort; order lookups will retry it.
			s.logger.WarnContext(ctx, "failed to record cart owner",
				slog.String("session_id", sess.ID),
				slog.String("error", err.Error()),
			)
		}
		return cart, nil
	})
}

// View returns the cart's current read state without blocking on a fetch,
// combined with the write-in-flight flag.
func (s *CartService) View(sess *session.Session) CartView {
	snap := s.cache.Peek(CartKey(sess.ID))
	return CartView{
		Cart:     snap.Data,
		Loading:  snap.Loading,
		Mutating: s.tracker.active(sess.ID),
		Err:      snap.Err,
	}
}

// Mutating reports whether a cart write is in flight for the session.
func (s *CartService) Mutating(sessionID string) bool {
	return s.tracker.active(sessionID)
}

// Add adds one unit of a product to the cart.
func (s *CartService) Add(ctx context.Context, sess *session.Session, productID string) error {
	if productID == "" {
		return apperrors.InvalidInput("product id is required")
	}

	s.tracker.begin(sess.ID)
	defer s.tracker.end(sess.ID)

	if err := s.api.AddCartItem(ctx, sess.Token, productID); err != nil {
		s.notifier.Error(ctx, "Error in adding product to Cart")
		return fmt.Errorf("add cart item: %w", err)
	}

	s.bus.Publish(CartKey(sess.ID))
	s.events.CartItemAdded(ctx, sess.ID, productID)
	s.notifier.Success(ctx, "Product added Successfully to your Cart")
	return nil
}

// UpdateQuantity sets a cart line's quantity. Quantities below 1 are
// rejected: removing the line is a distinct operation and the only way to
// reach zero.
func (s *CartService) UpdateQuantity(ctx context.Context, sess *session.Session, lineID string, count int) error {
	if lineID == "" {
		return apperrors.InvalidInput("cart line id is required")
	}
	if count < 1 {
		return apperrors.InvalidInput("quantity must be at least 1")
	}

	s.tracker.begin(sess.ID)
	defer s.tracker.end(sess.ID)

	if err := s.api.UpdateCartItem(ctx, sess.Token, lineID, count); err != nil {
		s.notifier.Error(ctx, "Error in updating product quantity")
		return fmt.Errorf("update cart item: %w", err)
	}

	s.bus.Publish(CartKey(sess.ID))
	s.events.CartQuantityUpdated(ctx, sess.ID, lineID, count)
	s.notifier.Success(ctx, "Product quantity updated Successfully")
	return nil
}

// DecrementQuantity lowers a line's quantity by one. When the line is at
// quantity 1 the decrement becomes a removal; a quantity-zero update is
// never sent upstream.
func (s *CartService) DecrementQuantity(ctx context.Context, sess *session.Session, lineID string) error {
	cart, err := s.Current(ctx, sess)
	if cart == nil {
		return fmt.Errorf("load cart for decrement: %w", err)
	}

	line := cart.FindItem(lineID)
	if line == nil {
		return apperrors.NotFound("cart line", lineID)
	}

	if line.Quantity <= 1 {
		return s.Remove(ctx, sess, lineID)
	}
	return s.UpdateQuantity(ctx, sess, lineID, line.Quantity-1)
}

// Remove deletes a cart line entirely.
func (s *CartService) Remove(ctx context.Context, sess *session.Session, lineID string) error {
	if lineID == "" {
		return apperrors.InvalidInput("cart line id is required")
	}

	s.tracker.begin(sess.ID)
	defer s.tracker.end(sess.ID)

	if err := s.api.RemoveCartItem(ctx, sess.Token, lineID); err != nil {
		s.notifier.Error(ctx, "Error in removing product from Cart")
		return fmt.Errorf("remove cart item: %w", err)
	}

	s.bus.Publish(CartKey(sess.ID))
	s.events.CartItemRemoved(ctx, sess.ID, lineID)
	s.notifier.Success(ctx, "Product removed Successfully from your Cart")
	return nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, sess *session.Session) error {
	s.tracker.begin(sess.ID)
	defer s.tracker.end(sess.ID)

	if err := s.api.ClearCart(ctx, sess.Token); err != nil {
		s.notifier.Error(ctx, "Error in clearing your Cart")
		return fmt.Errorf("clear cart: %w", err)
	}

	s.bus.Publish(CartKey(sess.ID))
	s.events.CartCleared(ctx, sess.ID)
	s.notifier.Success(ctx, "Cart cleared Successfully")
	return nil
}

// ForgetSession drops the session's cached cart. Called at logout so a new
// session on the same browser never sees another account's cart.
func (s *CartService) ForgetSession(sessionID string) {
	s.cache.Drop(CartKey(sessionID))
}
