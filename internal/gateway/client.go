// Package gateway is the HTTP client for the remote storefront API. It
// never returns Go errors for API or network failures: every call yields a
// Result whose Success flag callers must check.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"emart-storefront/internal/domain"
	"emart-storefront/internal/tokenstore"
	"emart-storefront/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	maxResponseBytes      = 10 << 20
	refreshEndpoint       = "/auth/refresh/"
	defaultMessage        = "An error occurred"
	defaultRefreshTimeout = 30 * time.Second
)

// errRefreshRejected means the stored refresh token cannot mint a new access
// token. Any other refresh error leaves the credentials in place.
var errRefreshRejected = errors.New("refresh token rejected")

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second; <= 0 disables limiting
	RateBurst int
	// HTTPClient overrides the default client (Timeout is then ignored).
	HTTPClient *http.Client
}

// Options describes a single API call.
type Options struct {
	Method  string
	Query   url.Values
	Body    any
	Headers map[string]string
	// Public calls (login, signup) carry no bearer token and never trigger
	// the refresh path.
	Public bool
}

// Result is the outcome of Request. Data holds the raw JSON body of a
// successful JSON response.
type Result struct {
	Success bool
	Status  int
	Data    json.RawMessage
	Err     *domain.APIError
	Retried bool
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  tokenstore.Store
	limiter *rate.Limiter
	refresh singleflight.Group
	// refreshTimeout bounds the shared refresh, which outlives the caller
	// that started it.
	refreshTimeout time.Duration
}

func New(cfg Config, tokens tokenstore.Store) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	refreshTimeout := cfg.Timeout
	if refreshTimeout <= 0 {
		refreshTimeout = defaultRefreshTimeout
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		http:           hc,
		tokens:         tokens,
		limiter:        limiter,
		refreshTimeout: refreshTimeout,
	}
}

// Tokens exposes the credential store the client reads from.
func (c *Client) Tokens() tokenstore.Store {
	return c.tokens
}

// IsAuthenticated reports whether an access token is stored.
func (c *Client) IsAuthenticated() bool {
	return tokenstore.HasAccess(c.tokens)
}

// Request performs one API call. A 401 triggers exactly one silent refresh:
// on success the call is retried once with the new access token, on
// rejection the credentials are cleared and the call is retried once
// without them. A refresh that fails in transit, or a caller that gives up
// while waiting for it, keeps the credentials and yields a network failure.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options) Result {
	log := logger.WithContext(ctx)
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	body, err := encodeBody(opts.Body)
	if err != nil {
		return failure(0, domain.KindUnknown, fmt.Sprintf("encode request: %v", err))
	}

	token := ""
	if !opts.Public {
		if creds, ok := c.tokens.Get(); ok {
			token = creds.Access
		}
	}

	start := time.Now()
	resp := c.send(ctx, method, endpoint, opts, body, token)
	retried := false

	if resp.status == http.StatusUnauthorized && !opts.Public {
		switch err := c.refreshAccess(ctx); {
		case err == nil:
			creds, _ := c.tokens.Get()
			resp = c.send(ctx, method, endpoint, opts, body, creds.Access)
			retried = true
		case !errors.Is(err, errRefreshRejected):
			resp = rawResponse{err: err}
		case token != "":
			c.clearQuietly(log)
			resp = c.send(ctx, method, endpoint, opts, body, "")
			retried = true
		}
		// Sent without credentials and nothing to refresh with: the 401
		// stands, a second identical call would change nothing.
	}

	logger.APICall(log, method, endpoint, resp.status, time.Since(start), retried)

	result := resp.result()
	result.Retried = retried
	return result
}

// refreshAccess exchanges the stored refresh token for a new access token.
// Concurrent callers share a single in-flight refresh, which runs detached
// from any one caller's cancellation. A caller whose ctx ends first stops
// waiting and gets ctx.Err().
func (c *Client) refreshAccess(ctx context.Context) error {
	ch := c.refresh.DoChan("refresh", func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()
		return nil, c.doRefresh(rctx)
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (c *Client) doRefresh(ctx context.Context) error {
	log := logger.WithContext(ctx)

	creds, _ := c.tokens.Get()
	if creds.Refresh == "" {
		return errRefreshRejected
	}

	body, _ := json.Marshal(domain.RefreshRequest{Refresh: creds.Refresh})
	resp := c.send(ctx, http.MethodPost, refreshEndpoint, Options{}, body, "")
	if resp.err != nil {
		log.Warn().Err(resp.err).Msg("Token refresh did not complete, keeping credentials")
		return fmt.Errorf("refresh access token: %w", resp.err)
	}
	if resp.status != http.StatusOK {
		log.Info().Int("status", resp.status).Msg("Token refresh rejected, clearing credentials")
		c.clearQuietly(log)
		return errRefreshRejected
	}

	var out domain.RefreshResponse
	if err := json.Unmarshal(resp.body, &out); err != nil || out.Access == "" {
		log.Warn().Err(err).Msg("Token refresh returned no access token")
		c.clearQuietly(log)
		return errRefreshRejected
	}

	var err error
	if out.Refresh != "" {
		err = c.tokens.Set(domain.Credentials{Access: out.Access, Refresh: out.Refresh})
	} else {
		err = c.tokens.SetAccess(out.Access)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to persist refreshed token")
		return fmt.Errorf("persist refreshed token: %w", err)
	}
	log.Debug().Msg("Access token refreshed")
	return nil
}

func (c *Client) clearQuietly(log *zerolog.Logger) {
	if err := c.tokens.Clear(); err != nil {
		log.Warn().Err(err).Msg("Failed to clear credentials")
	}
}

type rawResponse struct {
	status      int
	contentType string
	body        []byte
	err         error
}

func (c *Client) send(ctx context.Context, method, endpoint string, opts Options, body []byte, token string) rawResponse {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return rawResponse{err: err}
		}
	}

	u := c.baseURL + endpoint
	if len(opts.Query) > 0 {
		u += "?" + opts.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return rawResponse{err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String()[:8])
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return rawResponse{err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return rawResponse{status: resp.StatusCode, err: fmt.Errorf("read response: %w", err)}
	}
	return rawResponse{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        data,
	}
}

func (r rawResponse) isJSON() bool {
	mt, _, err := mime.ParseMediaType(r.contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func (r rawResponse) result() Result {
	if r.err != nil {
		msg := r.err.Error()
		if errors.Is(r.err, context.DeadlineExceeded) {
			msg = "Request timed out"
		}
		return failure(r.status, domain.KindNetwork, msg)
	}

	var data json.RawMessage
	if r.isJSON() && len(bytes.TrimSpace(r.body)) > 0 {
		data = json.RawMessage(r.body)
	}

	if r.status < 200 || r.status >= 300 {
		apiErr := parseError(r.status, data)
		return Result{Status: r.status, Err: apiErr}
	}
	return Result{Success: true, Status: r.status, Data: data}
}

func failure(status int, kind domain.ErrorKind, msg string) Result {
	return Result{
		Status: status,
		Err:    &domain.APIError{Kind: kind, Status: status, Message: msg},
	}
}

func encodeBody(v any) ([]byte, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		return json.Marshal(v)
	}
}
