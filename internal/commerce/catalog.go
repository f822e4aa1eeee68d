package commerce

import (
	"context"
	"net/http"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/domain"
)

// Catalog endpoints are public: no token, no envelope status field.

// ListProducts returns the full product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var resp productListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/products", "", nil, &resp); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(resp.Data))
	for _, p := range resp.Data {
		products = append(products, p.toDomain())
	}
	return products, nil
}

// GetProduct returns a single product by ID.
func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var resp productResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/products/"+productID, "", nil, &resp); err != nil {
		return nil, err
	}
	product := resp.Data.toDomain()
	return &product, nil
}

// ListCategories returns all catalog categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var resp categoryListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", "", nil, &resp); err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(resp.Data))
	for _, cat := range resp.Data {
		categories = append(categories, domain.Category{
			ID:       cat.ID,
			Name:     cat.Name,
			Slug:     cat.Slug,
			ImageURL: cat.Image,
		})
	}
	return categories, nil
}

// ListBrands returns all catalog brands.
func (c *Client) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	var resp brandListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/brands", "", nil, &resp); err != nil {
		return nil, err
	}
	brands := make([]domain.Brand, 0, len(resp.Data))
	for _, b := range resp.Data {
		brands = append(brands, domain.Brand{
			ID:       b.ID,
			Name:     b.Name,
			Slug:     b.Slug,
			ImageURL: b.Image,
		})
	}
	return brands, nil
}
