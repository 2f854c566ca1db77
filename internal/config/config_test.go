package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg-token")
	t.Setenv("TELEGRAM_PAYMENT_TOKEN", "pay-token")
	t.Setenv("OPENAI_API_KEY", "oa-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/astro")
	t.Setenv("SUBSCRIPTION_PRICE_CENTS", "999")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tg-token", cfg.TelegramToken)
	assert.Equal(t, "pay-token", cfg.PaymentToken)
	assert.Equal(t, "oa-key", cfg.OpenAIKey)
	assert.Equal(t, "postgres://localhost/astro", cfg.DatabaseURL)
	assert.Equal(t, 999, cfg.SubPriceCents)

	// Defaults.
	assert.Equal(t, "sessions.db", cfg.SessionDBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, 30, cfg.SubPeriodDays)
	assert.Equal(t, "basic", cfg.SubType)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "placeholder")
	os.Unsetenv("TELEGRAM_BOT_TOKEN")
	t.Setenv("TELEGRAM_PAYMENT_TOKEN", "pay-token")
	t.Setenv("OPENAI_API_KEY", "oa-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/astro")

	_, err := Load()
	assert.Error(t, err)
}
