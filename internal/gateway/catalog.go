package gateway

import (
	"context"
	"net/http"
	"net/url"

	"emart-storefront/internal/domain"
)

func (c *Client) Categories(ctx context.Context) domain.Response[[]domain.Category] {
	return decode[[]domain.Category](c.Request(ctx, "/categories/", Options{Method: http.MethodGet}))
}

func (c *Client) Category(ctx context.Context, slug string) domain.Response[domain.Category] {
	return decode[domain.Category](c.Request(ctx, "/categories/"+url.PathEscape(slug)+"/", Options{Method: http.MethodGet}))
}

func (c *Client) Products(ctx context.Context, filter domain.ProductFilter) domain.Response[domain.Page[domain.Product]] {
	return decode[domain.Page[domain.Product]](c.Request(ctx, "/products/", Options{
		Method: http.MethodGet,
		Query:  filter.Query(),
	}))
}

func (c *Client) ProductDetail(ctx context.Context, slug string) domain.Response[domain.ProductDetail] {
	return decode[domain.ProductDetail](c.Request(ctx, "/products/"+url.PathEscape(slug)+"/", Options{Method: http.MethodGet}))
}
