package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emart-storefront/config"
	"emart-storefront/internal/delivery/http/middleware"
	"emart-storefront/pkg/logger"
	"emart-storefront/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"
)

const version = "1.0.0"

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	upstream, err := url.Parse(cfg.FrontendUpstream)
	if err != nil || upstream.Host == "" {
		log.Fatal().Err(err).Str("upstream", cfg.FrontendUpstream).Msg("Invalid FRONTEND_UPSTREAM")
	}

	proxy := httputil.NewSingleHostReverseProxy(upstream)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Upstream unavailable")
		utils.WriteError(w, http.StatusBadGateway, "Storefront is temporarily unavailable")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "upstream": upstream.String()})
	})
	mux.Handle("/", middleware.RouteGate(middleware.DefaultGateConfig())(proxy))

	// Per-IP limit, cleanup every minute, idle TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.EdgeRateLimit),
		cfg.EdgeRateBurst,
		time.Minute,
		3*time.Minute,
	)

	// Request Logger, Rate Limit, then Gzip outermost
	handler := middleware.RequestLogger(mux)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.EdgePort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Edge server failed to start")
		}
	}()
	logger.ServiceStart("emart-edge", version, cfg.EdgePort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Edge shutting down...")
	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Edge forced to shutdown")
	}
	logger.ServiceStop("emart-edge")
}
