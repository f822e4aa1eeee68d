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

// WishlistHandler exposes the wishlist sync surface over HTTP.
type WishlistHandler struct {
	wishlists *service.WishlistService
	logger    *slog.Logger
}

// NewWishlistHandler creates a wishlist handler.
func NewWishlistHandler(wishlists *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists, logger: logger}
}

// wishlistState mirrors cartState for the wishlist.
type wishlistState struct {
	Wishlist *domain.Wishlist `json:"wishlist"`
	Loading  bool             `json:"loading"`
	Mutating bool             `json:"mutating"`
	Error    string           `json:"error,omitempty"`
}

type addWishlistItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// Get returns the current wishlist state.
func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	wl, err := h.wishlists.Current(r.Context(), sess)
	if err != nil && wl == nil {
		httputil.WriteError(w, r, err, h.logger, nil)
		return
	}

	state := wishlistState{
		Wishlist: wl,
		Mutating: h.wishlists.Mutating(sess.ID),
	}
	if err != nil {
		state.Error = err.Error()
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// AddItem puts a product on the wishlist.
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req addWishlistItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	ctx, collector := notify.WithCollector(r.Context())
	err := h.wishlists.Add(ctx, sess, req.ProductID)
	notice := firstNotice(collector)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger, notice)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Notice: notice})
}

// RemoveItem takes a product off the wishlist.
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	productID := chi.URLParam(r, "productID")

	ctx, collector := notify.WithCollector(r.Context())
	err := h.wishlists.Remove(ctx, sess, productID)
	notice := firstNotice(collector)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger, notice)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Notice: notice})
}
