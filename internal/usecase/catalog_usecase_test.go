package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"emart-storefront/internal/domain"
	"emart-storefront/internal/infrastructure/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) Categories(ctx context.Context) domain.Response[[]domain.Category] {
	args := m.Called(ctx)
	return args.Get(0).(domain.Response[[]domain.Category])
}

func (m *MockCatalogAPI) Category(ctx context.Context, slug string) domain.Response[domain.Category] {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.Response[domain.Category])
}

func (m *MockCatalogAPI) Products(ctx context.Context, filter domain.ProductFilter) domain.Response[domain.Page[domain.Product]] {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.Response[domain.Page[domain.Product]])
}

func (m *MockCatalogAPI) ProductDetail(ctx context.Context, slug string) domain.Response[domain.ProductDetail] {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.Response[domain.ProductDetail])
}

func newCatalog(api CatalogAPI) *CatalogUsecase {
	return NewCatalogUsecase(api, cache.NewMemoryCache(time.Minute, 0), time.Minute, time.Minute)
}

func TestGetCategoriesIsCached(t *testing.T) {
	ctx := context.Background()
	api := new(MockCatalogAPI)
	api.On("Categories", ctx).Return(domain.Response[[]domain.Category]{
		Success: true,
		Data:    []domain.Category{{ID: 1, Name: "Phones", Slug: "phones"}},
	}).Once()

	uc := newCatalog(api)
	for i := 0; i < 3; i++ {
		cats, err := uc.GetCategories(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, "phones", cats[0].Slug)
	}
	api.AssertExpectations(t)
}

func TestGetCategoriesFailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	api := new(MockCatalogAPI)
	api.On("Categories", ctx).Return(domain.Response[[]domain.Category]{
		Err: &domain.APIError{Kind: domain.KindNetwork, Message: "connection refused"},
	}).Twice()

	uc := newCatalog(api)
	_, err := uc.GetCategories(ctx)
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNetwork())

	_, err = uc.GetCategories(ctx)
	assert.Error(t, err)
	api.AssertExpectations(t)
}

func TestGetProductDetailsCachesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	api := new(MockCatalogAPI)
	detail := domain.ProductDetail{Product: domain.Product{ID: 5, Slug: "mug", Price: 12}, Stock: 3}
	api.On("ProductDetail", ctx, "mug").Return(domain.Response[domain.ProductDetail]{Success: true, Data: detail}).Twice()

	uc := newCatalog(api)
	got, err := uc.GetProductDetails(ctx, "mug")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	_, err = uc.GetProductDetails(ctx, "mug")
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "ProductDetail", 1)

	uc.InvalidateProduct("mug")
	_, err = uc.GetProductDetails(ctx, "mug")
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "ProductDetail", 2)
}

func TestListProductsRejectsInvertedRange(t *testing.T) {
	api := new(MockCatalogAPI)
	lo, hi := 50.0, 10.0

	_, err := newCatalog(api).ListProducts(context.Background(), domain.ProductFilter{MinPrice: &lo, MaxPrice: &hi})
	assert.ErrorIs(t, err, domain.ErrValidation)
	api.AssertNotCalled(t, "Products", mock.Anything, mock.Anything)
}

func TestListProductsPassesFilter(t *testing.T) {
	ctx := context.Background()
	api := new(MockCatalogAPI)
	filter := domain.ProductFilter{Search: "mug", Page: 2}
	api.On("Products", ctx, filter).Return(domain.Response[domain.Page[domain.Product]]{
		Success: true,
		Data:    domain.Page[domain.Product]{Count: 11, Results: []domain.Product{{ID: 5}}},
	})

	page, err := newCatalog(api).ListProducts(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 11, page.Count)
}
