package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"emart-storefront/config"
	"emart-storefront/internal/cartcode"
	"emart-storefront/internal/delivery/cli"
	"emart-storefront/internal/domain"
	"emart-storefront/internal/gateway"
	"emart-storefront/internal/infrastructure/cache"
	"emart-storefront/internal/infrastructure/localstate"
	"emart-storefront/internal/store"
	"emart-storefront/internal/tokenstore"
	"emart-storefront/internal/usecase"
	"emart-storefront/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	kv, err := localstate.Open(filepath.Join(cfg.StateDir, "state.json"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local state")
	}

	tokens := tokenstore.NewFileStore(kv, cfg.TokenTTL)
	api := gateway.New(gateway.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.HTTPTimeout,
		RateLimit: cfg.APIRateLimit,
		RateBurst: cfg.APIRateBurst,
	}, tokens)
	codes := cartcode.NewProvider(kv)

	// Per-entry TTLs come from config; cleanup every 60m
	memCache := cache.NewMemoryCache(cfg.CacheCategoryTTL, time.Hour)
	catalog := usecase.NewCatalogUsecase(api, memCache, cfg.CacheCategoryTTL, cfg.CacheProductTTL)

	session := store.New(api, codes,
		store.WithPersister(store.NewPersister(kv)),
		store.WithMaxQuantity(cfg.MaxCartQuantity),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(&cli.App{
		Store:   session,
		Catalog: catalog,
		Tokens:  tokens,
		Codes:   codes,
	})
	err = root.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps form errors to 2 and every other failure to 1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var formErr *domain.FormError
	if errors.As(err, &formErr) {
		fmt.Fprintln(os.Stderr, formErr.Message)
		return 2
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	return 1
}
