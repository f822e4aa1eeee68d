package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/service"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/httputil"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/validator"
)

// CheckoutHandler exposes checkout and order history over HTTP.
type CheckoutHandler struct {
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a checkout handler.
func NewCheckoutHandler(checkout *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

type checkoutResponse struct {
	PaymentURL string `json:"payment_url"`
}

// Checkout validates the shipping address, opens a payment session, and
// returns the URL the UI must redirect the shopper to.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var input service.CheckoutInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	payment, err := h.checkout.Checkout(r.Context(), sess, input)
	if err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			httputil.WriteValidationError(w, err)
			return
		}
		httputil.WriteError(w, r, err, h.logger, nil)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: checkoutResponse{PaymentURL: payment.PaymentURL},
	})
}

// Orders returns the session's order history.
func (h *CheckoutHandler) Orders(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	orders, err := h.checkout.Orders(r.Context(), sess)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}
