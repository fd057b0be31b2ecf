package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	// Remote API
	APIURL      string
	HTTPTimeout time.Duration
	// Outbound rate limit (requests per second, burst)
	APIRateLimit float64
	APIRateBurst int
	// Local persistence (tokens, cart code, store snapshot)
	StateDir string
	TokenTTL time.Duration
	// Cache
	CacheCategoryTTL time.Duration
	CacheProductTTL  time.Duration
	// Edge server
	EdgePort         string
	FrontendUpstream string
	EdgeRateLimit    float64
	EdgeRateBurst    int
	// Business Rules. MaxCartQuantity 0 leaves cart lines uncapped.
	MaxCartQuantity int
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		}
	} else {
		// 2. Default fallback: .env is optional, system env vars win otherwise
		_ = godotenv.Load()
	}

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIURL:      getEnv("API_URL", "http://localhost:8000/api"),
		HTTPTimeout: getDurationEnv("HTTP_TIMEOUT", 15*time.Second),

		APIRateLimit: getFloatEnv("API_RATE_LIMIT", 10),
		APIRateBurst: getIntEnv("API_RATE_BURST", 20),

		StateDir: getEnv("STATE_DIR", defaultStateDir()),
		TokenTTL: getDurationEnv("TOKEN_TTL", 7*24*time.Hour),

		// Cache defaults: 30m Category, 10m Product
		CacheCategoryTTL: getDurationEnv("CACHE_CATEGORY_TTL", 30*time.Minute),
		CacheProductTTL:  getDurationEnv("CACHE_PRODUCT_TTL", 10*time.Minute),

		EdgePort:         getEnv("EDGE_PORT", "3001"),
		FrontendUpstream: getEnv("FRONTEND_UPSTREAM", "http://localhost:3000"),
		EdgeRateLimit:    getFloatEnv("EDGE_RATE_LIMIT", 50),
		EdgeRateBurst:    getIntEnv("EDGE_RATE_BURST", 100),

		MaxCartQuantity: getIntEnv("MAX_CART_QUANTITY", 0),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.APIURL == "" {
		log.Fatal("CRITICAL: API_URL environment variable is required")
	}
	if c.TokenTTL <= 0 {
		log.Println("WARNING: TOKEN_TTL must be positive, using 7 days")
		c.TokenTTL = 7 * 24 * time.Hour
	}
	if c.MaxCartQuantity < 0 {
		log.Println("WARNING: MAX_CART_QUANTITY must not be negative, leaving cart uncapped")
		c.MaxCartQuantity = 0
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".emart"
	}
	return filepath.Join(home, ".emart")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}
