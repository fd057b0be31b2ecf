package gateway

import (
	"context"
	"net/http"

	"emart-storefront/internal/domain"
	"emart-storefront/pkg/logger"
)

// Signup creates an account and stores the issued credentials.
func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) domain.Response[domain.AuthResponse] {
	resp := decode[domain.AuthResponse](c.Request(ctx, "/auth/signup/", Options{
		Method: http.MethodPost,
		Body:   req,
		Public: true,
	}))
	c.storeCredentials(ctx, &resp)
	return resp
}

// Login authenticates and stores the issued credentials.
func (c *Client) Login(ctx context.Context, email, password string) domain.Response[domain.AuthResponse] {
	resp := decode[domain.AuthResponse](c.Request(ctx, "/auth/login/", Options{
		Method: http.MethodPost,
		Body:   domain.LoginRequest{Email: email, Password: password},
		Public: true,
	}))
	c.storeCredentials(ctx, &resp)
	return resp
}

func (c *Client) storeCredentials(ctx context.Context, resp *domain.Response[domain.AuthResponse]) {
	if !resp.Success {
		return
	}
	if resp.Data.Access == "" {
		resp.Success = false
		resp.Err = &domain.APIError{Kind: domain.KindDecode, Status: resp.Status, Message: "Authentication response carried no access token"}
		return
	}
	if err := c.tokens.Set(resp.Data.Credentials()); err != nil {
		logger.WithContext(ctx).Error().Err(err).Msg("Failed to persist credentials")
		resp.Success = false
		resp.Err = &domain.APIError{Kind: domain.KindUnknown, Status: resp.Status, Message: "Could not save your session"}
	}
}

// Logout revokes the refresh token server-side when one is stored, then
// clears local credentials regardless of the server's answer.
func (c *Client) Logout(ctx context.Context) domain.Response[struct{}] {
	var resp domain.Response[struct{}]
	creds, _ := c.tokens.Get()
	if creds.Refresh != "" {
		resp = decode[struct{}](c.Request(ctx, "/auth/logout/", Options{
			Method: http.MethodPost,
			Body:   domain.RefreshRequest{Refresh: creds.Refresh},
		}))
	} else {
		resp.Success = true
	}
	if err := c.tokens.Clear(); err != nil {
		logger.WithContext(ctx).Warn().Err(err).Msg("Failed to clear credentials on logout")
	}
	return resp
}

func (c *Client) Me(ctx context.Context) domain.Response[domain.User] {
	return decode[domain.User](c.Request(ctx, "/auth/me/", Options{Method: http.MethodGet}))
}

func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) domain.Response[domain.User] {
	return decode[domain.User](c.Request(ctx, "/auth/profile/", Options{
		Method: http.MethodPatch,
		Body:   update,
	}))
}
