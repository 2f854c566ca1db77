package storage

import (
	"context"
	"database/sql"
	"errors"

	"telegram-astrology-bot/internal/model"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// GetCurrentSubscription returns the active row with the furthest end date.
// Several active-looking rows may exist; the query picks the governing one.
func (r *Repository) GetCurrentSubscription(ctx context.Context, userID int64) (*model.Subscription, error) {
	var sub model.Subscription
	query := `
		SELECT * FROM subscriptions
		WHERE user_id = $1 AND status = 'active'
		ORDER BY end_date DESC
		LIMIT 1`

	err := r.db.GetContext(ctx, &sub, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// CreateSubscription inserts a new billing period row.
func (r *Repository) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, start_date, end_date, status, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		sub.UserID,
		sub.StartDate,
		sub.EndDate,
		sub.Status,
		sub.Type,
	).Scan(&sub.ID)
}

// ExtendSubscription pushes the end date forward by the given number of
// days from its prior value.
func (r *Repository) ExtendSubscription(ctx context.Context, id int64, days int) error {
	query := `
		UPDATE subscriptions SET
			end_date = end_date + interval '1 day' * $2
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, days)
	return err
}
