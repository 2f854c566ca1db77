// Package config loads the bot configuration from the environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every setting the bot reads at startup.
type Config struct {
	TelegramToken string `env:"TELEGRAM_BOT_TOKEN" env-required:"true"`
	PaymentToken  string `env:"TELEGRAM_PAYMENT_TOKEN" env-required:"true"`
	OpenAIKey     string `env:"OPENAI_API_KEY" env-required:"true"`
	DatabaseURL   string `env:"DATABASE_URL" env-required:"true"`
	SessionDBPath string `env:"SESSION_DB_PATH" env-default:"sessions.db"`
	LogLevel      string `env:"LOG_LEVEL" env-default:"info"`
	Language      string `env:"REPLY_LANGUAGE" env-default:"en"`
	SubPriceCents int    `env:"SUBSCRIPTION_PRICE_CENTS" env-default:"499"`
	SubPeriodDays int    `env:"SUBSCRIPTION_PERIOD_DAYS" env-default:"30"`
	SubType       string `env:"SUBSCRIPTION_TYPE" env-default:"basic"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}
