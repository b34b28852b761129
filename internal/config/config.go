// Package config provides environment-based configuration.
//
// Loads from the process environment (a .env file is applied by cmd/server
// via godotenv before Load runs). Validates the operationally significant
// tunables; API keys are optional and gate their endpoints.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv    string
	Port      string
	LogLevel  string
	LogFormat string

	// PollInterval is how often the scheduler fetches prices. It trades
	// update freshness against upstream rate-limit pressure: every
	// distinct subscribed symbol costs one provider call per tick.
	PollInterval time.Duration

	// QuoteRatePerSecond caps upstream quote provider calls.
	QuoteRatePerSecond float64

	// QuoteBackend selects the provider implementation: "yahoo" or "fake".
	QuoteBackend string

	// RedisURL enables the snapshot store and response caches when set.
	RedisURL string

	FinnhubAPIKey string
	NewsAPIKey    string

	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		QuoteBackend:  getEnv("QUOTE_BACKEND", "yahoo"),
		RedisURL:      getEnv("REDIS_URL", ""),
		FinnhubAPIKey: getEnv("FINNHUB_API_KEY", ""),
		NewsAPIKey:    getEnv("NEWSAPI_KEY", ""),
	}

	pollSeconds, err := getEnvInt("POLL_INTERVAL", 5)
	if err != nil {
		return nil, err
	}
	if pollSeconds < 1 {
		return nil, fmt.Errorf("POLL_INTERVAL must be at least 1 second, got %d", pollSeconds)
	}
	cfg.PollInterval = time.Duration(pollSeconds) * time.Second

	quoteRate, err := getEnvFloat("QUOTE_RATE_PER_SECOND", 10)
	if err != nil {
		return nil, err
	}
	if quoteRate <= 0 {
		return nil, fmt.Errorf("QUOTE_RATE_PER_SECOND must be positive, got %v", quoteRate)
	}
	cfg.QuoteRatePerSecond = quoteRate

	if cfg.QuoteBackend != "yahoo" && cfg.QuoteBackend != "fake" {
		return nil, fmt.Errorf("QUOTE_BACKEND must be \"yahoo\" or \"fake\", got %q", cfg.QuoteBackend)
	}

	origins := getEnv("ALLOWED_ORIGINS", "*")
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}
	if len(cfg.AllowedOrigins) == 0 {
		return nil, fmt.Errorf("ALLOWED_ORIGINS must name at least one origin")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return parsed, nil
}
