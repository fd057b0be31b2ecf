package usecase

import (
	"context"
	"fmt"
	"time"

	"emart-storefront/internal/domain"
	"emart-storefront/pkg/cache"
)

// CatalogAPI is the part of the gateway the catalog reads from.
type CatalogAPI interface {
	Categories(ctx context.Context) domain.Response[[]domain.Category]
	Category(ctx context.Context, slug string) domain.Response[domain.Category]
	Products(ctx context.Context, filter domain.ProductFilter) domain.Response[domain.Page[domain.Product]]
	ProductDetail(ctx context.Context, slug string) domain.Response[domain.ProductDetail]
}

type CatalogUsecase struct {
	api         CatalogAPI
	cache       cache.CacheService
	categoryTTL time.Duration
	productTTL  time.Duration
}

func NewCatalogUsecase(api CatalogAPI, cache cache.CacheService, categoryTTL, productTTL time.Duration) *CatalogUsecase {
	return &CatalogUsecase{
		api:         api,
		cache:       cache,
		categoryTTL: categoryTTL,
		productTTL:  productTTL,
	}
}

func (u *CatalogUsecase) GetCategories(ctx context.Context) ([]domain.Category, error) {
	key := "category:list"
	if val, found := u.cache.Get(key); found {
		return val.([]domain.Category), nil
	}

	resp := u.api.Categories(ctx)
	if !resp.Success {
		return nil, resp.Failure()
	}

	u.cache.Set(key, resp.Data, u.categoryTTL)
	return resp.Data, nil
}

func (u *CatalogUsecase) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	key := fmt.Sprintf("category:slug:%s", slug)
	if val, found := u.cache.Get(key); found {
		c := val.(domain.Category)
		return &c, nil
	}

	resp := u.api.Category(ctx, slug)
	if !resp.Success {
		return nil, resp.Failure()
	}

	u.cache.Set(key, resp.Data, u.categoryTTL)
	return &resp.Data, nil
}

// ListProducts is never cached: filter combinations make the key space
// unbounded.
func (u *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.Page[domain.Product], error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, &domain.FormError{Field: "min_price", Message: "Minimum price cannot exceed maximum price"}
	}
	resp := u.api.Products(ctx, filter)
	if !resp.Success {
		return nil, resp.Failure()
	}
	return &resp.Data, nil
}

func (u *CatalogUsecase) GetProductDetails(ctx context.Context, slug string) (*domain.ProductDetail, error) {
	key := fmt.Sprintf("product:slug:%s", slug)
	if val, found := u.cache.Get(key); found {
		p := val.(domain.ProductDetail)
		return &p, nil
	}

	resp := u.api.ProductDetail(ctx, slug)
	if !resp.Success {
		return nil, resp.Failure()
	}

	u.cache.Set(key, resp.Data, u.productTTL)
	return &resp.Data, nil
}

// InvalidateProduct drops a cached product detail.
func (u *CatalogUsecase) InvalidateProduct(slug string) {
	u.cache.Delete(fmt.Sprintf("product:slug:%s", slug))
}
