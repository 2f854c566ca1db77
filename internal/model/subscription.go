package model

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
)

// Subscription is one billing period for a user. A user may accumulate
// several rows over time; the governing one is the active row with the
// furthest end date. Expiry is computed on read, never written back.
type Subscription struct {
	ID        int64              `db:"id"`
	UserID    int64              `db:"user_id"`
	StartDate time.Time          `db:"start_date"`
	EndDate   time.Time          `db:"end_date"`
	Status    SubscriptionStatus `db:"status"`
	Type      string             `db:"type"`
}

// IsActiveOn reports whether the subscription covers the given day.
func (s *Subscription) IsActiveOn(day time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	y1, m1, d1 := s.EndDate.Date()
	y2, m2, d2 := day.Date()
	end := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	cur := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return !end.Before(cur)
}

// DailyPrediction caches one generated forecast per user per calendar date.
type DailyPrediction struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	PredictionDate time.Time `db:"prediction_date"`
	Content        string    `db:"content"`
}
