package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"telegram-astrology-bot/internal/model"
)

var ErrPredictionNotFound = errors.New("prediction not found")

// GetDailyPrediction returns the cached forecast for the given calendar day.
func (r *Repository) GetDailyPrediction(ctx context.Context, userID int64, day time.Time) (*model.DailyPrediction, error) {
	var pred model.DailyPrediction
	err := r.db.GetContext(ctx, &pred,
		"SELECT * FROM daily_predictions WHERE user_id = $1 AND prediction_date = $2",
		userID, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	return &pred, nil
}

// SaveDailyPrediction stores the forecast for the given day, replacing any
// earlier one for the same day.
func (r *Repository) SaveDailyPrediction(ctx context.Context, userID int64, day time.Time, content string) error {
	query := `
		INSERT INTO daily_predictions (user_id, prediction_date, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, prediction_date) DO UPDATE SET
			content = EXCLUDED.content`
	_, err := r.db.ExecContext(ctx, query, userID, day, content)
	return err
}
