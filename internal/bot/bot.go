package bot

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tg "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"

	"telegram-astrology-bot/internal/astro"
	"telegram-astrology-bot/internal/config"
	"telegram-astrology-bot/internal/handler"
	"telegram-astrology-bot/internal/logging"
	"telegram-astrology-bot/internal/session"
	"telegram-astrology-bot/internal/storage"
	"telegram-astrology-bot/internal/subscription"
)

// Run wires the services together and long-polls Telegram for updates
// until the process receives SIGINT or SIGTERM.
func Run() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Init("")
		logging.Log.Fatal().Err(err).Msg("load config")
	}
	logging.Init(cfg.LogLevel)

	repo, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		logging.Log.Fatal().Err(err).Msg("connect to database")
	}
	defer repo.Close()

	if err := session.Init(cfg.SessionDBPath); err != nil {
		logging.Log.Fatal().Err(err).Msg("open session store")
	}
	defer session.Close()

	ledger := subscription.NewLedger(repo)
	gen := astro.New(cfg.OpenAIKey)
	h := handler.New(repo, ledger, gen, handler.Config{
		PaymentToken:  cfg.PaymentToken,
		SubPriceCents: cfg.SubPriceCents,
		SubPeriodDays: cfg.SubPeriodDays,
		SubType:       cfg.SubType,
		Language:      cfg.Language,
	})

	b, err := tg.New(cfg.TelegramToken, tg.WithDefaultHandler(func(ctx context.Context, b *tg.Bot, upd *models.Update) {
		h.HandleUpdate(ctx, b, upd)
	}))
	if err != nil {
		logging.Log.Fatal().Err(err).Msg("create bot")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logging.Log.Info().Msg("bot started")
	b.Start(ctx)
	logging.Log.Info().Msg("bot stopped")
}
