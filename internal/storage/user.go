package storage

import (
	"context"
	"database/sql"
	"errors"

	"telegram-astrology-bot/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

// GetUserByTelegramID looks up a user by the external platform identifier.
func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user,
		"SELECT * FROM users WHERE telegram_id = $1", telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the profile collected during onboarding.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (telegram_id, name, birthdate, birthtime, birthplace)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		user.TelegramID,
		user.Name,
		user.Birthdate,
		user.Birthtime,
		user.Birthplace,
	).Scan(&user.ID, &user.CreatedAt)
}
