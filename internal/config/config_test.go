package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":         "postgres://localhost/pricing",
		"REDIS_URL":            "redis://localhost:6379/0",
		"QUOTE_MARGIN_PERCENT": "",
		"BOOKING_TTL":          "",
		"PORT":                 "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.True(t, cfg.QuoteMarginPercent.Equal(decimal.NewFromInt(25)))
	require.Equal(t, 48*time.Hour, cfg.BookingTTL)
	require.Equal(t, 120, cfg.QuoteRateMax)
	require.True(t, cfg.SecurityHeadersEnabled)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)
}

func TestLoadRejectsMarginOutOfRange(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL":         "postgres://localhost/pricing",
		"REDIS_URL":            "redis://localhost:6379/0",
		"QUOTE_MARGIN_PERCENT": "100",
	})
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":         "postgres://localhost/pricing",
		"REDIS_URL":            "redis://localhost:6379/0",
		"PORT":                 "9090",
		"QUOTE_MARGIN_PERCENT": "17.5",
		"QUOTE_RATE_MAX":       "10",
		"CORS_ALLOWED_ORIGINS": "https://studio.example.com, https://admin.example.com",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.True(t, cfg.QuoteMarginPercent.Equal(decimal.RequireFromString("17.5")))
	require.Equal(t, 10, cfg.QuoteRateMax)
	require.Equal(t, []string{"https://studio.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}
