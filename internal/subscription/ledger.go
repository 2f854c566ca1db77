// Package subscription computes subscription activity and applies renewals.
package subscription

import (
	"context"
	"errors"
	"time"

	"telegram-astrology-bot/internal/logging"
	"telegram-astrology-bot/internal/model"
	"telegram-astrology-bot/internal/storage"
)

// Repository defines the store operations the ledger needs.
type Repository interface {
	GetCurrentSubscription(ctx context.Context, userID int64) (*model.Subscription, error)
	CreateSubscription(ctx context.Context, sub *model.Subscription) error
	ExtendSubscription(ctx context.Context, id int64, days int) error
}

// Ledger derives active/inactive from stored rows and applies renewals.
type Ledger struct {
	repo Repository
	now  func() time.Time
}

func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo, now: time.Now}
}

// Current returns the governing subscription row for the user, or
// storage.ErrSubscriptionNotFound when none exists.
func (l *Ledger) Current(ctx context.Context, userID int64) (*model.Subscription, error) {
	return l.repo.GetCurrentSubscription(ctx, userID)
}

// IsActive reports whether the user's governing subscription covers today.
func (l *Ledger) IsActive(ctx context.Context, userID int64) (bool, error) {
	sub, err := l.repo.GetCurrentSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrSubscriptionNotFound) {
			return false, nil
		}
		return false, err
	}
	return sub.IsActiveOn(l.now()), nil
}

// CreateOrRenew extends the current subscription's end date by the billing
// period from its prior value, or creates a new row starting today when the
// user has none.
func (l *Ledger) CreateOrRenew(ctx context.Context, userID int64, days int, subType string) error {
	existing, err := l.repo.GetCurrentSubscription(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrSubscriptionNotFound) {
		return err
	}

	if existing != nil {
		if err := l.repo.ExtendSubscription(ctx, existing.ID, days); err != nil {
			return err
		}
		logging.Ctx(ctx).Info().
			Str("event", "subscription_renewed").
			Int64("subscription_id", existing.ID).
			Int("days", days).
			Msg("subscription extended")
		return nil
	}

	today := l.today()
	sub := &model.Subscription{
		UserID:    userID,
		StartDate: today,
		EndDate:   today.AddDate(0, 0, days),
		Status:    model.SubscriptionStatusActive,
		Type:      subType,
	}
	if err := l.repo.CreateSubscription(ctx, sub); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().
		Str("event", "subscription_created").
		Int64("subscription_id", sub.ID).
		Int("days", days).
		Msg("subscription created")
	return nil
}

func (l *Ledger) today() time.Time {
	y, m, d := l.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
