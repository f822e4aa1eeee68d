package commerce

import (
	"context"
	"net/http"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/domain"
)

// GetCart fetches the session's cart. The response carries the cart owner ID,
// which callers should capture for order lookups.
func (c *Client) GetCart(ctx context.Context, token string) (*domain.Cart, error) {
	var resp cartResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/cart", token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusSuccess {
		return nil, c.envelopeError("get cart", resp.Status)
	}
	return resp.toDomain(), nil
}

// AddCartItem adds one unit of the given product to the cart. Adding a
// product already in the cart increments its quantity upstream.
func (c *Client) AddCartItem(ctx context.Context, token, productID string) error {
	body := map[string]string{"productId": productID}
	var resp cartResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/cart", token, body, &resp); err != nil {
		return err
	}
	if resp.Status != statusSuccess {
		return c.envelopeError("add cart item", resp.Status)
	}
	return nil
}

// UpdateCartItem sets the quantity of a cart line. Quantities below 1 are
// rejected by the caller before reaching this method; a removal is a
// different operation upstream.
func (c *Client) UpdateCartItem(ctx context.Context, token, lineID string, count int) error {
	body := map[string]int{"count": count}
	var resp cartResponse
	if err := c.do(ctx, http.MethodPut, "/api/v1/cart/"+lineID, token, body, &resp); err != nil {
		return err
	}
	if resp.Status != statusSuccess {
		return c.envelopeError("update cart item", resp.Status)
	}
	return nil
}

// RemoveCartItem deletes a cart line entirely, regardless of quantity.
func (c *Client) RemoveCartItem(ctx context.Context, token, lineID string) error {
	var resp cartResponse
	if err := c.do(ctx, http.MethodDelete, "/api/v1/cart/"+lineID, token, nil, &resp); err != nil {
		return err
	}
	if resp.Status != statusSuccess {
		return c.envelopeError("remove cart item", resp.Status)
	}
	return nil
}

// ClearCart deletes the entire cart.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	// Clearing returns {"message": "success"} with no cart payload.
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/v1/cart", token, nil, &resp); err != nil {
		return err
	}
	if resp.Message != statusSuccess {
		return c.envelopeError("clear cart", resp.Message)
	}
	return nil
}
