package commerce

import (
	"context"
	"net/http"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/domain"
)

// GetWishlist fetches the session's wishlist with populated products.
func (c *Client) GetWishlist(ctx context.Context, token string) (*domain.Wishlist, error) {
	var resp wishlistResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/wishlist", token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusSuccess {
		return nil, c.envelopeError("get wishlist", resp.Status)
	}
	return resp.toDomain(), nil
}

// AddWishlistItem adds a product to the wishlist. The upstream response lists
// the product IDs now on the wishlist, which is returned for callers that
// want membership without a full refetch.
func (c *Client) AddWishlistItem(ctx context.Context, token, productID string) ([]string, error) {
	body := map[string]string{"productId": productID}
	var resp wishlistMutationResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/wishlist", token, body, &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusSuccess {
		return nil, c.envelopeError("add wishlist item", resp.Status)
	}
	return resp.Data, nil
}

// RemoveWishlistItem removes a product from the wishlist. Wishlist entries
// are addressed by product ID, not by a line ID.
func (c *Client) RemoveWishlistItem(ctx context.Context, token, productID string) ([]string, error) {
	var resp wishlistMutationResponse
	if err := c.do(ctx, http.MethodDelete, "/api/v1/wishlist/"+productID, token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusSuccess {
		return nil, c.envelopeError("remove wishlist item", resp.Status)
	}
	return resp.Data, nil
}
