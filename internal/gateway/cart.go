package gateway

import (
	"context"
	"net/http"
	"net/url"

	"emart-storefront/internal/domain"
)

// Cart endpoints address a cart by its cart code. Every mutation answers
// with the full cart snapshot.

func (c *Client) CartGet(ctx context.Context, cartCode string) domain.Response[domain.Cart] {
	return decode[domain.Cart](c.Request(ctx, "/cart/get/", Options{
		Method: http.MethodGet,
		Query:  url.Values{"cart_code": {cartCode}},
	}))
}

func (c *Client) CartAdd(ctx context.Context, cartCode string, productID, quantity int) domain.Response[domain.Cart] {
	return decode[domain.Cart](c.Request(ctx, "/cart/add/", Options{
		Method: http.MethodPost,
		Body:   domain.CartAddRequest{CartCode: cartCode, ProductID: productID, Quantity: quantity},
	}))
}

func (c *Client) CartUpdate(ctx context.Context, cartCode string, productID, quantity int) domain.Response[domain.Cart] {
	return decode[domain.Cart](c.Request(ctx, "/cart/update/", Options{
		Method: http.MethodPatch,
		Body:   domain.CartUpdateRequest{CartCode: cartCode, ProductID: productID, Quantity: quantity},
	}))
}

func (c *Client) CartRemove(ctx context.Context, cartCode string, productID int) domain.Response[domain.Cart] {
	return decode[domain.Cart](c.Request(ctx, "/cart/remove/", Options{
		Method: http.MethodDelete,
		Body:   domain.CartRemoveRequest{CartCode: cartCode, ProductID: productID},
	}))
}

func (c *Client) CartClear(ctx context.Context, cartCode string) domain.Response[domain.Cart] {
	return decode[domain.Cart](c.Request(ctx, "/cart/clear/", Options{
		Method: http.MethodDelete,
		Body:   domain.CartClearRequest{CartCode: cartCode},
	}))
}
