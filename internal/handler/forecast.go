package handler

import (
	"context"
	"errors"

	"github.com/go-telegram/bot/models"

	"telegram-astrology-bot/internal/logging"
	"telegram-astrology-bot/internal/storage"
)

// handleDaily serves the paid daily forecast. The subscription gate runs
// before any generator call so inactive users never cost a completion.
func (h *Handler) handleDaily(ctx context.Context, b Bot, msg *models.Message) {
	user := h.registered(ctx, b, msg)
	if user == nil {
		return
	}

	active, err := h.ledger.IsActive(ctx, user.ID)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("subscription check failed")
		h.send(ctx, b, msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}
	if !active {
		h.send(ctx, b, msg.Chat.ID,
			"The daily forecast is part of the paid subscription. Use /subscribe to activate it.")
		return
	}

	today := h.today()
	if cached, err := h.store.GetDailyPrediction(ctx, user.ID, today); err == nil {
		logging.Ctx(ctx).Info().Str("event", "daily_forecast").Bool("cached", true).Msg("served cached forecast")
		h.send(ctx, b, msg.Chat.ID, cached.Content)
		return
	} else if !errors.Is(err, storage.ErrPredictionNotFound) {
		logging.Ctx(ctx).Warn().Err(err).Msg("prediction cache read failed")
	}

	forecast, err := h.gen.DailyForecast(ctx, user.Name, h.cfg.Language)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("daily forecast generation failed")
		h.send(ctx, b, msg.Chat.ID, "I couldn't prepare your forecast just now. Please try again later.")
		return
	}
	if err := h.store.SaveDailyPrediction(ctx, user.ID, today, forecast); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("prediction cache write failed")
	}
	if err := h.store.AddUserEvent(ctx, user.ID, "daily_forecast", ""); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("record event failed")
	}
	logging.Ctx(ctx).Info().Str("event", "daily_forecast").Bool("cached", false).Msg("forecast generated")
	h.send(ctx, b, msg.Chat.ID, forecast)
}
