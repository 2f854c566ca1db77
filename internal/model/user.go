package model

import (
	"time"
)

// User is a registered bot user with the birth details collected during
// onboarding. A row is created exactly once, at the end of the dialog.
type User struct {
	ID         int64     `db:"id"`
	TelegramID string    `db:"telegram_id"`
	Name       string    `db:"name"`
	Birthdate  time.Time `db:"birthdate"`
	Birthtime  string    `db:"birthtime"` // free text "HH:MM", never parsed
	Birthplace string    `db:"birthplace"`
	CreatedAt  time.Time `db:"created_at"`
}

// UserEvent is an append-only log entry for notable user actions.
type UserEvent struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	EventType string    `db:"event_type"`
	EventDate time.Time `db:"event_date"`
	Details   string    `db:"details"`
}

// BonusPoints is a per-user reward counter.
type BonusPoints struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Points    int       `db:"points"`
	UpdatedAt time.Time `db:"updated_at"`
}
