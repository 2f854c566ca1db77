package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"

	"telegram-astrology-bot/internal/logging"
	"telegram-astrology-bot/internal/model"
	"telegram-astrology-bot/internal/session"
	"telegram-astrology-bot/internal/storage"
)

// handleStart either short-circuits for a registered user or opens a fresh
// onboarding draft. No profile row exists until the dialog completes.
func (h *Handler) handleStart(ctx context.Context, b Bot, msg *models.Message) {
	user, err := h.lookupUser(ctx, msg.From.ID)
	if err == nil {
		h.send(ctx, b, msg.Chat.ID, "Welcome back, "+user.Name+"! You can use /daily to get your daily forecast.")
		return
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		logging.Ctx(ctx).Error().Err(err).Msg("user lookup failed")
		h.send(ctx, b, msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	if err := session.Put(msg.From.ID, &session.Draft{State: session.StateAskName}); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("create draft failed")
		h.send(ctx, b, msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}
	logging.Ctx(ctx).Info().Str("event", "onboarding_started").Msg("new conversation")
	h.send(ctx, b, msg.Chat.ID,
		"Hello! I will guide you through setting up your natal chart. Let's begin.\nWhat's your name?")
}

func (h *Handler) handleCancel(ctx context.Context, b Bot, msg *models.Message) {
	d, err := session.Get(msg.From.ID)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("read draft failed")
		return
	}
	if d == nil {
		h.send(ctx, b, msg.Chat.ID, "Nothing to cancel.")
		return
	}
	if err := session.Delete(msg.From.ID); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("discard draft failed")
	}
	logging.Ctx(ctx).Info().Str("event", "onboarding_cancelled").Msg("conversation cancelled")
	h.send(ctx, b, msg.Chat.ID, "Registration canceled.")
}

// handleConversation feeds free text into the active draft. Text arriving
// with no draft is ignored.
func (h *Handler) handleConversation(ctx context.Context, b Bot, msg *models.Message) {
	d, err := session.Get(msg.From.ID)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("read draft failed")
		return
	}
	if d == nil {
		return
	}

	text := strings.TrimSpace(msg.Text)
	switch d.State {
	case session.StateAskName:
		d.Name = text
		d.State = session.StateAskBirthdate
		if err := session.Put(msg.From.ID, d); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("save draft failed")
			return
		}
		h.send(ctx, b, msg.Chat.ID, "Great! Now, please provide your birthdate in YYYY-MM-DD format (e.g. 1990-04-15).")

	case session.StateAskBirthdate:
		// Stored raw; the format is only enforced at the final step.
		d.Birthdate = text
		d.State = session.StateAskBirthtime
		if err := session.Put(msg.From.ID, d); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("save draft failed")
			return
		}
		h.send(ctx, b, msg.Chat.ID, "Got it. Please provide your birth time in HH:MM format (e.g. 14:30).")

	case session.StateAskBirthtime:
		d.Birthtime = text
		d.State = session.StateAskBirthplace
		if err := session.Put(msg.From.ID, d); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("save draft failed")
			return
		}
		h.send(ctx, b, msg.Chat.ID, "Finally, please tell me your birthplace (e.g. New York, USA).")

	case session.StateAskBirthplace:
		d.Birthplace = text
		h.finishOnboarding(ctx, b, msg, d)
	}
}

// finishOnboarding validates the draft, commits the profile and generates
// the natal chart reading. The commit happens before the generator call, so
// a generation failure leaves the saved profile in place.
func (h *Handler) finishOnboarding(ctx context.Context, b Bot, msg *models.Message, d *session.Draft) {
	birthdate, err := time.Parse(birthdateLayout, d.Birthdate)
	if err != nil {
		if derr := session.Delete(msg.From.ID); derr != nil {
			logging.Ctx(ctx).Error().Err(derr).Msg("discard draft failed")
		}
		logging.Ctx(ctx).Warn().Str("event", "bad_birthdate").Str("input", logging.Snippet(d.Birthdate, 30)).Msg("unparseable birthdate")
		h.send(ctx, b, msg.Chat.ID,
			"That birthdate doesn't look right, I expected the YYYY-MM-DD format. Please use /start to try again.")
		return
	}

	user := &model.User{
		TelegramID: telegramID(msg.From.ID),
		Name:       d.Name,
		Birthdate:  birthdate,
		Birthtime:  d.Birthtime,
		Birthplace: d.Birthplace,
	}
	if err := h.store.CreateUser(ctx, user); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("create user failed")
		h.send(ctx, b, msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}
	if err := session.Delete(msg.From.ID); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("discard draft failed")
	}
	if err := h.store.AddUserEvent(ctx, user.ID, "registered", ""); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("record event failed")
	}
	logging.Ctx(ctx).Info().Str("event", "onboarding_completed").Int64("profile_id", user.ID).Msg("profile created")

	reading, err := h.gen.NatalChart(ctx, user.Name, user.Birthdate.Format(birthdateLayout), user.Birthtime, user.Birthplace, h.cfg.Language)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("natal chart generation failed")
		h.send(ctx, b, msg.Chat.ID,
			"Your profile is saved, but I couldn't prepare your reading just now. Please try again later.")
		return
	}

	h.send(ctx, b, msg.Chat.ID, "Thank you! Here's your natal chart interpretation:")
	h.send(ctx, b, msg.Chat.ID, reading)
	h.send(ctx, b, msg.Chat.ID, "You are all set! From now on, you can use /daily to get your daily forecast.")
}
