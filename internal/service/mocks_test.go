package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/cache"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/domain"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/notify"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/session"
)

type mockCartAPI struct {
	mock.Mock
}

func (m *mockCartAPI) GetCart(ctx context.Context, token string) (*domain.Cart, error) {
	args := m.Called(ctx, token)
	cart, _ := args.Get(0).(*domain.Cart)
	return cart, args.Error(1)
}

func (m *mockCartAPI) AddCartItem(ctx context.Context, token, productID string) error {
	return m.Called(ctx, token, productID).Error(0)
}

func (m *mockCartAPI) UpdateCartItem(ctx context.Context, token, lineID string, count int) error {
	return m.Called(ctx, token, lineID, count).Error(0)
}

func (m *mockCartAPI) RemoveCartItem(ctx context.Context, token, lineID string) error {
	return m.Called(ctx, token, lineID).Error(0)
}

func (m *mockCartAPI) ClearCart(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type mockWishlistAPI struct {
	mock.Mock
}

func (m *mockWishlistAPI) GetWishlist(ctx context.Context, token string) (*domain.Wishlist, error) {
	args := m.Called(ctx, token)
	wl, _ := args.Get(0).(*domain.Wishlist)
	return wl, args.Error(1)
}

func (m *mockWishlistAPI) AddWishlistItem(ctx context.Context, token, productID string) ([]string, error) {
	args := m.Called(ctx, token, productID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockWishlistAPI) RemoveWishlistItem(ctx context.Context, token, productID string) ([]string, error) {
	args := m.Called(ctx, token, productID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

type mockCheckoutAPI struct {
	mock.Mock
}

func (m *mockCheckoutAPI) CreateCheckoutSession(ctx context.Context, token, cartID, returnURL string, addr domain.Address) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, token, cartID, returnURL, addr)
	cs, _ := args.Get(0).(*domain.CheckoutSession)
	return cs, args.Error(1)
}

func (m *mockCheckoutAPI) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	args := m.Called(ctx, ownerID)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

// eventRecorder captures published activity events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	topics []string
}

func (r *eventRecorder) record(topic string) {
	r.mu.Lock()
	r.topics = append(r.topics, topic)
	r.mu.Unlock()
}

func (r *eventRecorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.topics...)
}

func (r *eventRecorder) CartItemAdded(_ context.Context, _, _ string) { r.record("cart.item_added") }
func (r *eventRecorder) CartItemRemoved(_ context.Context, _, _ string) {
	r.record("cart.item_removed")
}
func (r *eventRecorder) CartQuantityUpdated(_ context.Context, _, _ string, _ int) {
	r.record("cart.quantity_updated")
}
func (r *eventRecorder) CartCleared(_ context.Context, _ string) { r.record("cart.cleared") }
func (r *eventRecorder) WishlistItemAdded(_ context.Context, _, _ string) {
	r.record("wishlist.item_added")
}
func (r *eventRecorder) WishlistItemRemoved(_ context.Context, _, _ string) {
	r.record("wishlist.item_removed")
}
func (r *eventRecorder) CheckoutInitiated(_ context.Context, _, _ string) {
	r.record("checkout.initiated")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nopWriter{}, nil))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

type cartFixture struct {
	api      *mockCartAPI
	cache    *cache.Cache[domain.Cart]
	bus      *cache.InvalidationBus
	sessions *session.Manager
	events   *eventRecorder
	notifier *notify.ContextNotifier
	svc      *CartService
	sess     *session.Session
}

func newCartFixture() *cartFixture {
	api := &mockCartAPI{}
	bus := cache.NewInvalidationBus()
	c := cache.New[domain.Cart]("cart", time.Minute, testLogger())
	sessions := session.NewManager(session.NewMemoryStore())
	events := &eventRecorder{}
	notifier := notify.NewContextNotifier(testLogger())

	sess, err := sessions.Create(context.Background(), "tok-abc", "Shopper", "s@example.com")
	if err != nil {
		panic(err)
	}

	svc := NewCartService(api, c, bus, sessions, events, notifier, testLogger())
	return &cartFixture{
		api:      api,
		cache:    c,
		bus:      bus,
		sessions: sessions,
		events:   events,
		notifier: notifier,
		svc:      svc,
		sess:     sess,
	}
}

func cartWith(items ...domain.CartItem) *domain.Cart {
	total := 0.0
	n := 0
	for _, it := range items {
		total += it.UnitPrice * float64(it.Quantity)
		n += it.Quantity
	}
	return &domain.Cart{
		ID:         "cart-1",
		OwnerID:    "owner-9",
		Items:      items,
		TotalPrice: total,
		NumItems:   n,
	}
}

func line(lineID, productID string, qty int) domain.CartItem {
	return domain.CartItem{
		LineID:    lineID,
		ProductID: productID,
		Title:     "Product " + productID,
		UnitPrice: 100,
		Quantity:  qty,
	}
}
