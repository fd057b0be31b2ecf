package gateway

import (
	"context"
	"net/http"

	"emart-storefront/internal/domain"
)

func (c *Client) WishlistGet(ctx context.Context) domain.Response[domain.Wishlist] {
	return decode[domain.Wishlist](c.Request(ctx, "/wishlist/get/", Options{Method: http.MethodGet}))
}

func (c *Client) WishlistAdd(ctx context.Context, productID int) domain.Response[domain.Wishlist] {
	return decode[domain.Wishlist](c.Request(ctx, "/wishlist/add/", Options{
		Method: http.MethodPost,
		Body:   domain.WishlistRequest{ProductID: productID},
	}))
}

func (c *Client) WishlistRemove(ctx context.Context, productID int) domain.Response[domain.Wishlist] {
	return decode[domain.Wishlist](c.Request(ctx, "/wishlist/remove/", Options{
		Method: http.MethodDelete,
		Body:   domain.WishlistRequest{ProductID: productID},
	}))
}
