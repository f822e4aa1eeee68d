package event

import (
	"context"
	"log/slog"

	pkgkafka "github.com/YousefAboschwaly/ecommerce-V2/pkg/kafka"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/logger"
)

// Kafka topics for storefront activity events.
const (
	TopicCartItemAdded       = "storefront.cart.item_added"
	TopicCartItemRemoved     = "storefront.cart.item_removed"
	TopicCartQuantityUpdated = "storefront.cart.quantity_updated"
	TopicCartCleared         = "storefront.cart.cleared"
	TopicWishlistItemAdded   = "storefront.wishlist.item_added"
	TopicWishlistItemRemoved = "storefront.wishlist.item_removed"
	TopicCheckoutInitiated   = "storefront.checkout.initiated"
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
	AggregateTypeCheckout = "checkout"
)

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// Publisher emits storefront activity events. Implementations must be
// fire-and-forget from the caller's perspective: shopping flows never fail
// because analytics are down.
type Publisher interface {
	CartItemAdded(ctx context.Context, sessionID, productID string)
	CartItemRemoved(ctx context.Context, sessionID, lineID string)
	CartQuantityUpdated(ctx context.Context, sessionID, lineID string, quantity int)
	CartCleared(ctx context.Context, sessionID string)
	WishlistItemAdded(ctx context.Context, sessionID, productID string)
	WishlistItemRemoved(ctx context.Context, sessionID, productID string)
	CheckoutInitiated(ctx context.Context, sessionID, cartID string)
}

// CartItemData is the payload for cart item events.
type CartItemData struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id,omitempty"`
	LineID    string `json:"line_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

// WishlistItemData is the payload for wishlist events.
type WishlistItemData struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
}

// CheckoutData is the payload for checkout events.
type CheckoutData struct {
	SessionID string `json:"session_id"`
	CartID    string `json:"cart_id"`
}

// Producer publishes storefront activity events to Kafka. Publish failures
// are logged and swallowed: activity events are observational, never part of
// the operation's outcome.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a Kafka-backed activity event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) {
	ev, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build activity event",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		ev.WithCorrelationID(cid)
	}

	if err := p.kafka.Publish(ctx, topic, ev); err != nil {
		// Logged inside the producer as well; record the drop here and move on.
		p.logger.WarnContext(ctx, "activity event dropped",
			slog.String("topic", topic),
			slog.String("aggregate_id", aggregateID),
		)
	}
}

func (p *Producer) CartItemAdded(ctx context.Context, sessionID, productID string) {
	p.publish(ctx, TopicCartItemAdded, sessionID, AggregateTypeCart,
		CartItemData{SessionID: sessionID, ProductID: productID})
}

func (p *Producer) CartItemRemoved(ctx context.Context, sessionID, lineID string) {
	p.publish(ctx, TopicCartItemRemoved, sessionID, AggregateTypeCart,
		CartItemData{SessionID: sessionID, LineID: lineID})
}

func (p *Producer) CartQuantityUpdated(ctx context.Context, sessionID, lineID string, quantity int) {
	p.publish(ctx, TopicCartQuantityUpdated, sessionID, AggregateTypeCart,
		CartItemData{SessionID: sessionID, LineID: lineID, Quantity: quantity})
}

func (p *Producer) CartCleared(ctx context.Context, sessionID string) {
	p.publish(ctx, TopicCartCleared, sessionID, AggregateTypeCart,
		CartItemData{SessionID: sessionID})
}

func (p *Producer) WishlistItemAdded(ctx context.Context, sessionID, productID string) {
	p.publish(ctx, TopicWishlistItemAdded, sessionID, AggregateTypeWishlist,
		WishlistItemData{SessionID: sessionID, ProductID: productID})
}

func (p *Producer) WishlistItemRemoved(ctx context.Context, sessionID, productID string) {
	p.publish(ctx, TopicWishlistItemRemoved, sessionID, AggregateTypeWishlist,
		WishlistItemData{SessionID: sessionID, ProductID: productID})
}

func (p *Producer) CheckoutInitiated(ctx context.Context, sessionID, cartID string) {
	p.publish(ctx, TopicCheckoutInitiated, sessionID, AggregateTypeCheckout,
		CheckoutData{SessionID: sessionID, CartID: cartID})
}

// NopPublisher discards all events. Used when Kafka is disabled and in tests.
type NopPublisher struct{}

func (NopPublisher) CartItemAdded(context.Context, string, string)            {}
func (NopPublisher) CartItemRemoved(context.Context, string, string)          {}
func (NopPublisher) CartQuantityUpdated(context.Context, string, string, int) {}
func (NopPublisher) CartCleared(context.Context, string)                      {}
func (NopPublisher) WishlistItemAdded(context.Context, string, string)        {}
func (NopPublisher) WishlistItemRemoved(context.Context, string, string)      {}
func (NopPublisher) CheckoutInitiated(context.Context, string, string)        {}
