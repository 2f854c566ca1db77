// Package handler routes Telegram updates to the onboarding state machine,
// the subscription flow and the forecast commands.
package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	tg "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"telegram-astrology-bot/internal/logging"
	"telegram-astrology-bot/internal/model"
	"telegram-astrology-bot/internal/session"
	"telegram-astrology-bot/internal/storage"
)

const (
	birthdateLayout = "2006-01-02"

	// invoicePayload identifies our product in the successful-payment
	// callback. Telegram echoes it back verbatim.
	invoicePayload = "astro-sub-basic"

	bonusPerPayment = 10
)

// Bot is the outbound Telegram surface. *tg.Bot satisfies it.
type Bot interface {
	SendMessage(ctx context.Context, params *tg.SendMessageParams) (*models.Message, error)
	SendInvoice(ctx context.Context, params *tg.SendInvoiceParams) (*models.Message, error)
	AnswerPreCheckoutQuery(ctx context.Context, params *tg.AnswerPreCheckoutQueryParams) (bool, error)
}

// Store is the persistence surface the handlers need.
type Store interface {
	GetUserByTelegramID(ctx context.Context, telegramID string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	AddUserEvent(ctx context.Context, userID int64, eventType, details string) error
	AddBonusPoints(ctx context.Context, userID int64, points int) error
	GetBonusPoints(ctx context.Context, userID int64) (int, error)
	GetDailyPrediction(ctx context.Context, userID int64, day time.Time) (*model.DailyPrediction, error)
	SaveDailyPrediction(ctx context.Context, userID int64, day time.Time, content string) error
}

// Ledger computes subscription activity and applies renewals.
type Ledger interface {
	IsActive(ctx context.Context, userID int64) (bool, error)
	CreateOrRenew(ctx context.Context, userID int64, days int, subType string) error
	Current(ctx context.Context, userID int64) (*model.Subscription, error)
}

// Generator produces astrology readings.
type Generator interface {
	NatalChart(ctx context.Context, name, birthdate, birthtime, birthplace, language string) (string, error)
	DailyForecast(ctx context.Context, name, language string) (string, error)
}

// Config carries the pricing and language settings the handlers use.
type Config struct {
	PaymentToken  string
	SubPriceCents int
	SubPeriodDays int
	SubType       string
	Language      string
}

// Handler dispatches inbound updates. All collaborators are injected so no
// package-level client state exists.
type Handler struct {
	store  Store
	ledger Ledger
	gen    Generator
	cfg    Config
	now    func() time.Time
}

func New(store Store, ledger Ledger, gen Generator, cfg Config) *Handler {
	return &Handler{store: store, ledger: ledger, gen: gen, cfg: cfg, now: time.Now}
}

// HandleUpdate processes one Telegram update.
func (h *Handler) HandleUpdate(ctx context.Context, b Bot, upd *models.Update) {
	ctx = logging.Context(ctx)

	if pcq := upd.PreCheckoutQuery; pcq != nil {
		ctx = logging.WithUser(ctx, pcq.From.ID)
		h.handlePreCheckout(ctx, b, pcq)
		return
	}

	if upd.Message == nil || upd.Message.From == nil {
		return
	}
	msg := upd.Message
	ctx = logging.WithUser(ctx, msg.From.ID)
	log := logging.Ctx(ctx)
	log.Info().Str("event", "telegram_request").Int64("chat_id", msg.Chat.ID).Str("snippet", logging.Snippet(msg.Text, 30)).Msg("incoming message")

	if msg.SuccessfulPayment != nil {
		h.handleSuccessfulPayment(ctx, b, msg)
		return
	}

	if cmd, _, ok := parseCommand(msg); ok {
		switch cmd {
		case "start":
			h.handleStart(ctx, b, msg)
		case "daily":
			h.handleDaily(ctx, b, msg)
		case "subscribe":
			h.handleSubscribe(ctx, b, msg)
		case "cancel":
			h.handleCancel(ctx, b, msg)
		default:
			// Commands are never consumed as field data. Mid-conversation
			// the user gets a nudge, otherwise unknown commands are ignored.
			if d, err := session.Get(msg.From.ID); err == nil && d != nil {
				h.send(ctx, b, msg.Chat.ID, "Please answer with plain text, or /cancel to stop.")
			}
		}
		return
	}

	if msg.Text != "" {
		h.handleConversation(ctx, b, msg)
	}
}

func (h *Handler) send(ctx context.Context, b Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &tg.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("send message failed")
	}
}

func (h *Handler) today() time.Time {
	y, m, d := h.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseCommand(msg *models.Message) (cmd, args string, ok bool) {
	if msg.Text == "" {
		return "", "", false
	}
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			cmd = strings.TrimPrefix(msg.Text[:e.Length], "/")
			if i := strings.Index(cmd, "@"); i >= 0 {
				cmd = cmd[:i]
			}
			args = strings.TrimSpace(msg.Text[e.Length:])
			return strings.ToLower(cmd), args, true
		}
	}
	return "", "", false
}

func telegramID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (h *Handler) lookupUser(ctx context.Context, userID int64) (*model.User, error) {
	return h.store.GetUserByTelegramID(ctx, telegramID(userID))
}

// registered fetches the user's profile, prompting for /start when absent.
// It returns nil when the caller should stop.
func (h *Handler) registered(ctx context.Context, b Bot, msg *models.Message) *model.User {
	user, err := h.lookupUser(ctx, msg.From.ID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.send(ctx, b, msg.Chat.ID, "I don't have your details yet. Please use /start to register.")
			return nil
		}
		logging.Ctx(ctx).Error().Err(err).Msg("user lookup failed")
		h.send(ctx, b, msg.Chat.ID, "Something went wrong, please try again later.")
		return nil
	}
	return user
}
