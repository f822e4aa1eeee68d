package commerce

import (
	"context"
	"net/http"
	"net/url"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/domain"
)

// CreateCheckoutSession opens a hosted payment session for the given cart.
// returnURL is where the payment provider redirects the shopper afterwards.
func (c *Client) CreateCheckoutSession(ctx context.Context, token, cartID, returnURL string, addr domain.Address) (*domain.CheckoutSession, error) {
	body := map[string]addressPayload{
		"shippingAddress": {
			Details: addr.Details,
			Phone:   addr.Phone,
			City:    addr.City,
		},
	}

	path := "/api/v1/orders/checkout-session/" + cartID + "?url=" + url.QueryEscape(returnURL)

	var resp checkoutSessionResponse
	if err := c.do(ctx, http.MethodPost, path, token, body, &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusSuccess {
		return nil, c.envelopeError("create checkout session", resp.Status)
	}
	return &domain.CheckoutSession{PaymentURL: resp.Session.URL}, nil
}

// ListOrders returns all orders for a cart owner. Unlike the other endpoints
// this one returns a bare JSON array with no envelope.
func (c *Client) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	var payload []orderPayload
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders/user/"+ownerID, "", nil, &payload); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(payload))
	for i := range payload {
		orders = append(orders, payload[i].toDomain())
	}
	return orders, nil
}
