package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, "yahoo", cfg.QuoteBackend)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_PollInterval(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
}

func TestLoad_PollIntervalInvalid(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "abc")
	_, err := Load()
	assert.ErrorContains(t, err, "POLL_INTERVAL")
}

func TestLoad_PollIntervalTooSmall(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "0")
	_, err := Load()
	assert.ErrorContains(t, err, "at least 1 second")
}

func TestLoad_UnknownQuoteBackend(t *testing.T) {
	t.Setenv("QUOTE_BACKEND", "bloomberg")
	_, err := Load()
	assert.ErrorContains(t, err, "QUOTE_BACKEND")
}

func TestLoad_AllowedOriginsSplitAndTrimmed(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_QuoteRateInvalid(t *testing.T) {
	t.Setenv("QUOTE_RATE_PER_SECOND", "-1")
	_, err := Load()
	assert.ErrorContains(t, err, "QUOTE_RATE_PER_SECOND")
}
