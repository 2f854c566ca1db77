package storage

import (
	"context"
)

// AddUserEvent appends an entry to the user activity log.
func (r *Repository) AddUserEvent(ctx context.Context, userID int64, eventType, details string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_events (user_id, event_type, details) VALUES ($1, $2, $3)",
		userID, eventType, details)
	return err
}

// AddBonusPoints credits points to the user's counter, creating it on first use.
func (r *Repository) AddBonusPoints(ctx context.Context, userID int64, points int) error {
	query := `
		INSERT INTO bonus_points (user_id, points)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			points = bonus_points.points + EXCLUDED.points,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query, userID, points)
	return err
}

// GetBonusPoints returns the user's current balance, zero if none recorded.
func (r *Repository) GetBonusPoints(ctx context.Context, userID int64) (int, error) {
	var points int
	err := r.db.GetContext(ctx, &points,
		"SELECT COALESCE(SUM(points), 0) FROM bonus_points WHERE user_id = $1", userID)
	return points, err
}
