package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/domain"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/event"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/session"
	apperrors "github.com/YousefAboschwaly/ecommerce-V2/pkg/errors"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/validator"
)

// egyptianPhone matches the mobile number format the commerce API accepts.
var egyptianPhone = regexp.MustCompile(`^01[0125][0-9]{8}$`)

// checkoutAPI is the slice of the commerce client checkout depends on.
type checkoutAPI interface {
	CreateCheckoutSession(ctx context.Context, token, cartID, returnURL string, addr domain.Address) (*domain.CheckoutSession, error)
	ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error)
}

// CheckoutInput is the shipping address collected from the shopper.
type CheckoutInput struct {
	Details string `json:"details" validate:"required,min=3"`
	Phone   string `json:"phone" validate:"required"`
	City    string `json:"city" validate:"required"`
}

// CheckoutService opens hosted payment sessions and reads order history.
// Orders upstream are keyed by the cart owner ID, not by token, so history
// is only reachable after at least one cart read has captured the owner.
type CheckoutService struct {
	api      checkoutAPI
	carts    *CartService
	sessions *session.Manager
	events   event.Publisher
	logger   *slog.Logger

	// returnURL is where the payment provider sends the shopper afterwards.
	returnURL string
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(api checkoutAPI, carts *CartService, sessions *session.Manager, events event.Publisher, logger *slog.Logger, returnURL string) *CheckoutService {
	return &CheckoutService{
		api:       api,
		carts:     carts,
		sessions:  sessions,
		events:    events,
		logger:    logger,
		returnURL: returnURL,
	}
}

// Checkout validates the shipping address and opens a payment session for
// the current cart. The cart cache is invalidated so that the view refetches
// after the payment provider empties the cart.
func (s *CheckoutService) Checkout(ctx context.Context, sess *session.Session, input CheckoutInput) (*domain.CheckoutSession, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}
	if !egyptianPhone.MatchString(input.Phone) {
		return nil, apperrors.InvalidInput("phone must be a valid Egyptian mobile number")
	}

	cart, err := s.carts.Current(ctx, sess)
	if cart == nil {
		return nil, fmt.Errorf("load cart for checkout: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	addr := domain.Address{
		Details: input.Details,
		Phone:   input.Phone,
		City:    input.City,
	}

	payment, err := s.api.CreateCheckoutSession(ctx, sess.Token, cart.ID, s.returnURL, addr)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	s.carts.bus.Publish(CartKey(sess.ID))
	s.events.CheckoutInitiated(ctx, sess.ID, cart.ID)

	s.logger.InfoContext(ctx, "checkout session created",
		slog.String("session_id", sess.ID),
		slog.String("cart_id", cart.ID),
	)
	return payment, nil
}

// Orders returns the session's order history. When the cart owner ID has not
// been captured yet, one cart read is attempted to capture it before giving
// up.
func (s *CheckoutService) Orders(ctx context.Context, sess *session.Session) ([]domain.Order, error) {
	ownerID := sess.CartOwnerID

	if ownerID == "" {
		// The owner rides on cart reads; force one and re-read the session.
		if _, err := s.carts.Current(ctx, sess); err != nil {
			return nil, fmt.Errorf("resolve cart owner: %w", err)
		}
		refreshed, err := s.sessions.Get(ctx, sess.ID)
		if err != nil {
			return nil, fmt.Errorf("reload session: %w", err)
		}
		ownerID = refreshed.CartOwnerID
	}

	if ownerID == "" {
		return nil, apperrors.NotFound("order history", sess.ID)
	}

	orders, err := s.api.ListOrders(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
