package handler

import (
	"context"
	"errors"
	"fmt"

	tg "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"telegram-astrology-bot/internal/logging"
	"telegram-astrology-bot/internal/storage"
)

// handleSubscribe issues a Telegram invoice for the fixed billing period,
// unless the user already has coverage.
func (h *Handler) handleSubscribe(ctx context.Context, b Bot, msg *models.Message) {
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
	if active {
		until := ""
		if sub, err := h.ledger.Current(ctx, user.ID); err == nil {
			until = " until " + sub.EndDate.Format(birthdateLayout)
		}
		h.send(ctx, b, msg.Chat.ID, "You already have an active subscription"+until+".")
		return
	}

	_, err = b.SendInvoice(ctx, &tg.SendInvoiceParams{
		ChatID:        msg.Chat.ID,
		Title:         "Daily forecast subscription",
		Description:   fmt.Sprintf("%d days of personal daily astrological forecasts.", h.cfg.SubPeriodDays),
		Payload:       invoicePayload,
		ProviderToken: h.cfg.PaymentToken,
		Currency:      "USD",
		Prices: []models.LabeledPrice{
			{Label: fmt.Sprintf("%d days", h.cfg.SubPeriodDays), Amount: h.cfg.SubPriceCents},
		},
		StartParameter: "astro-subscription",
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("send invoice failed")
		h.send(ctx, b, msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}
	logging.Ctx(ctx).Info().Str("event", "invoice_sent").Int("amount", h.cfg.SubPriceCents).Msg("invoice issued")
}

// handlePreCheckout acknowledges the charge. Every query is accepted.
func (h *Handler) handlePreCheckout(ctx context.Context, b Bot, pcq *models.PreCheckoutQuery) {
	ok, err := b.AnswerPreCheckoutQuery(ctx, &tg.AnswerPreCheckoutQueryParams{
		PreCheckoutQueryID: pcq.ID,
		OK:                 true,
	})
	if err != nil || !ok {
		logging.Ctx(ctx).Error().Err(err).Msg("answer pre-checkout failed")
		return
	}
	logging.Ctx(ctx).Info().Str("event", "pre_checkout").Str("payload", pcq.InvoicePayload).Int("amount", pcq.TotalAmount).Msg("pre-checkout accepted")
}

// handleSuccessfulPayment applies the renewal once Telegram confirms the
// charge, crediting bonus points alongside.
func (h *Handler) handleSuccessfulPayment(ctx context.Context, b Bot, msg *models.Message) {
	sp := msg.SuccessfulPayment
	if sp.InvoicePayload != invoicePayload {
		logging.Ctx(ctx).Warn().Str("payload", sp.InvoicePayload).Msg("payment with unknown payload ignored")
		return
	}

	user, err := h.lookupUser(ctx, msg.From.ID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logging.Ctx(ctx).Warn().Msg("payment from unregistered user")
			return
		}
		logging.Ctx(ctx).Error().Err(err).Msg("user lookup failed")
		return
	}

	if err := h.ledger.CreateOrRenew(ctx, user.ID, h.cfg.SubPeriodDays, h.cfg.SubType); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("apply renewal failed")
		h.send(ctx, b, msg.Chat.ID, "Your payment went through but I couldn't activate the subscription. Please contact support.")
		return
	}
	if err := h.store.AddBonusPoints(ctx, user.ID, bonusPerPayment); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("credit bonus points failed")
	}
	details := fmt.Sprintf("%d %s, charge %s", sp.TotalAmount, sp.Currency, sp.TelegramPaymentChargeID)
	if err := h.store.AddUserEvent(ctx, user.ID, "payment", details); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("record event failed")
	}
	logging.Ctx(ctx).Info().Str("event", "payment_applied").Int("amount", sp.TotalAmount).Str("currency", sp.Currency).Msg("subscription renewed")

	until := ""
	if sub, err := h.ledger.Current(ctx, user.ID); err == nil {
		until = " until " + sub.EndDate.Format(birthdateLayout)
	}
	bonus := ""
	if balance, err := h.store.GetBonusPoints(ctx, user.ID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("read bonus balance failed")
	} else if balance > 0 {
		bonus = fmt.Sprintf(" You now have %d bonus points.", balance)
	}
	h.send(ctx, b, msg.Chat.ID, "Payment received! Your subscription is active"+until+"."+bonus+" Enjoy your daily forecasts with /daily.")
}
