package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/domain"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/notify"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/service"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/httputil"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/validator"
)

// CartHandler exposes the cart sync surface over HTTP.
type CartHandler struct {
	carts  *service.CartService
	logger *slog.Logger
}

// NewCartHandler creates a cart handler.
func NewCartHandler(carts *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

// cartState is the read contract returned to the UI: the last-known cart,
// the read/write in-flight flags, and the last read error if any. Cart can
// be non-null while Error is set after a failed refetch.
type cartState struct {
	Cart     *domain.Cart `json:"cart"`
	Loading  bool         `json:"loading"`
	Mutating bool         `json:"mutating"`
	Error    string       `json:"error,omitempty"`
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type updateQuantityRequest struct {
	Count int `json:"count" validate:"required"`
}

// Get returns the current cart state, fetching from the commerce API when
// the cached view is stale. A failed refetch still returns the last-known
// cart, with the error recorded alongside.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	cart, err := h.carts.Current(r.Context(), sess)
	if err != nil && cart == nil {
		httputil.WriteError(w, r, err, h.logger, nil)
		return
	}

	state := cartState{
		Cart:     cart,
		Mutating: h.carts.Mutating(sess.ID),
	}
	if err != nil {
		state.Error = err.Error()
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// AddItem adds a product to the cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req addCartItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	ctx, collector := notify.WithCollector(r.Context())
	err := h.carts.Add(ctx, sess, req.ProductID)
	notice := firstNotice(collector)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger, notice)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Notice: notice})
}

// UpdateQuantity sets a cart line's quantity. Zero and negative counts are
// rejected; removal is its own endpoint.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	lineID := chi.URLParam(r, "lineID")

	var req updateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	ctx, collector := notify.WithCollector(r.Context())
	err := h.carts.UpdateQuantity(ctx, sess, lineID, req.Count)
	notice := firstNotice(collector)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger, notice)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Notice: notice})
}

// Decrement lowers a line's quantity by one, removing the line when it is
// already at one.
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	lineID := chi.URLParam(r, "lineID")

	ctx, collector := notify.WithCollector(r.Context())
	err := h.carts.DecrementQuantity(ctx, sess, lineID)
	notice := firstNotice(collector)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger, notice)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Notice: notice})
}

// RemoveItem deletes a cart line.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	lineID := chi.URLParam(r, "lineID")

	ctx, collector := notify.WithCollector(r.Context())
	err := h.carts.Remove(ctx, sess, lineID)
	notice := firstNotice(collector)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger, notice)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Notice: notice})
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	ctx, collector := notify.WithCollector(r.Context())
	err := h.carts.Clear(ctx, sess)
	notice := firstNotice(collector)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger, notice)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Notice: notice})
}

// firstNotice converts the first collected notice to the response format.
func firstNotice(c *notify.Collector) *httputil.Notice {
	notices := c.Drain()
	if len(notices) == 0 {
		return nil
	}
	return &httputil.Notice{Level: notices[0].Level, Message: notices[0].Message}
}
