package middleware

import (
	"net/http"
	"strings"

	"emart-storefront/internal/tokenstore"
	"emart-storefront/pkg/logger"
)

// GateConfig lists the page prefixes the edge gates on the access-token
// cookie.
type GateConfig struct {
	Protected []string
	AuthPages []string
	Bypass    []string
	SignIn    string
	Home      string
}

// DefaultGateConfig mirrors the storefront's page layout.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		Protected: []string{"/account", "/checkout", "/orders", "/wishlist"},
		AuthPages: []string{"/auth/sign-in", "/auth/sign-up"},
		Bypass:    []string{"/_next/static", "/_next/image", "/favicon.ico"},
		SignIn:    "/auth/sign-in",
		Home:      "/",
	}
}

// RouteGate redirects anonymous visitors away from protected pages and
// signed-in visitors away from the auth pages. Only the presence of the
// access-token cookie is checked; the token itself is never validated.
func RouteGate(cfg GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if matchPrefix(path, cfg.Bypass) {
				next.ServeHTTP(w, r)
				return
			}

			signedIn := tokenstore.HasAccess(tokenstore.NewCookieStore(r, nil, 0))

			switch {
			case !signedIn && matchPrefix(path, cfg.Protected):
				logger.WithContext(r.Context()).Debug().Str("path", path).Msg("Anonymous visitor sent to sign-in")
				http.Redirect(w, r, cfg.SignIn, http.StatusTemporaryRedirect)
				return
			case signedIn && matchPrefix(path, cfg.AuthPages):
				http.Redirect(w, r, cfg.Home, http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// matchPrefix matches whole path segments: "/orders" covers "/orders" and
// "/orders/12" but not "/ordersx".
func matchPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}
