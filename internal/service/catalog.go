package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/domain"
)

// catalogAPI is the slice of the commerce client the catalog service uses.
type catalogAPI interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListBrands(ctx context.Context) ([]domain.Brand, error)
}

// CatalogService serves the public catalog through a Redis cache. Catalog
// data is identical for every shopper and changes rarely, so it is cached
// shared across sessions, unlike cart and wishlist state. Redis outages
// degrade to direct upstream reads.
type CatalogService struct {
	api    catalogAPI
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCatalogService creates a catalog service. redis may be nil, in which
// case every read goes upstream.
func NewCatalogService(api catalogAPI, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CatalogService {
	return &CatalogService{api: api, redis: rdb, ttl: ttl, logger: logger}
}

const (
	keyProducts   = "catalog:products"
	keyCategories = "catalog:categories"
	keyBrands     = "catalog:brands"
)

func keyProduct(id string) string {
	return "catalog:product:" + id
}

// Products returns the full product catalog.
func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := s.cached(ctx, keyProducts, &products, func(ctx context.Context) (any, error) {
		return s.api.ListProducts(ctx)
	})
	return products, err
}

// Product returns one product by ID.
func (s *CatalogService) Product(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := s.cached(ctx, keyProduct(id), &product, func(ctx context.Context) (any, error) {
		return s.api.GetProduct(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories returns all catalog categories.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := s.cached(ctx, keyCategories, &categories, func(ctx context.Context) (any, error) {
		return s.api.ListCategories(ctx)
	})
	return categories, err
}

// Brands returns all catalog brands.
func (s *CatalogService) Brands(ctx context.Context) ([]domain.Brand, error) {
	var brands []domain.Brand
	err := s.cached(ctx, keyBrands, &brands, func(ctx context.Context) (any, error) {
		return s.api.ListBrands(ctx)
	})
	return brands, err
}

// cached serves out into dst from Redis when possible, otherwise fetches and
// stores. Redis failures are logged, never surfaced: the catalog must keep
// working when the cache is down.
func (s *CatalogService) cached(ctx context.Context, key string, dst any, fetch func(ctx context.Context) (any, error)) error {
	if s.redis != nil {
		data, err := s.redis.Get(ctx, key).Bytes()
		if err == nil {
			if jerr := json.Unmarshal(data, dst); jerr == nil {
				return nil
			}
			// Corrupt entry: fall through to a fresh fetch which overwrites it.
		} else if err != redis.Nil {
			s.logger.WarnContext(ctx, "catalog cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal catalog entry: %w", err)
	}
	if uerr := json.Unmarshal(data, dst); uerr != nil {
		return fmt.Errorf("decode catalog entry: %w", uerr)
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.logger.WarnContext(ctx, "catalog cache write failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}
