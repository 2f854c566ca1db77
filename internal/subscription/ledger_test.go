package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"telegram-astrology-bot/internal/model"
	"telegram-astrology-bot/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetCurrentSubscription(ctx context.Context, userID int64) (*model.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *RepoMock) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *RepoMock) ExtendSubscription(ctx context.Context, id int64, days int) error {
	return m.Called(ctx, id, days).Error(0)
}

func newLedgerAt(repo Repository, now time.Time) *Ledger {
	l := NewLedger(repo)
	l.now = func() time.Time { return now }
	return l
}

func TestLedger_IsActive(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		want       bool
	}{
		{
			name: "no rows",
			setupMocks: func(r *RepoMock) {
				r.On("GetCurrentSubscription", mock.Anything, int64(1)).
					Return(nil, storage.ErrSubscriptionNotFound).Once()
			},
			want: false,
		},
		{
			name: "ended yesterday",
			setupMocks: func(r *RepoMock) {
				r.On("GetCurrentSubscription", mock.Anything, int64(1)).
					Return(&model.Subscription{
						Status:  model.SubscriptionStatusActive,
						EndDate: now.AddDate(0, 0, -1),
					}, nil).Once()
			},
			want: false,
		},
		{
			name: "ends today",
			setupMocks: func(r *RepoMock) {
				r.On("GetCurrentSubscription", mock.Anything, int64(1)).
					Return(&model.Subscription{
						Status:  model.SubscriptionStatusActive,
						EndDate: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
					}, nil).Once()
			},
			want: true,
		},
		{
			name: "ends later",
			setupMocks: func(r *RepoMock) {
				r.On("GetCurrentSubscription", mock.Anything, int64(1)).
					Return(&model.Subscription{
						Status:  model.SubscriptionStatusActive,
						EndDate: now.AddDate(0, 0, 10),
					}, nil).Once()
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			l := newLedgerAt(repo, now)

			got, err := l.IsActive(context.Background(), 1)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			repo.AssertExpectations(t)
		})
	}
}

func TestLedger_CreateOrRenew_ExtendsExisting(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	repo := new(RepoMock)
	repo.On("GetCurrentSubscription", mock.Anything, int64(1)).
		Return(&model.Subscription{
			ID:      7,
			UserID:  1,
			Status:  model.SubscriptionStatusActive,
			EndDate: now.AddDate(0, 0, 5),
		}, nil).Once()
	// The extension is applied to the prior end date, not to today.
	repo.On("ExtendSubscription", mock.Anything, int64(7), 30).Return(nil).Once()

	l := newLedgerAt(repo, now)
	err := l.CreateOrRenew(context.Background(), 1, 30, "basic")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
}

func TestLedger_CreateOrRenew_CreatesWhenAbsent(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	repo := new(RepoMock)
	repo.On("GetCurrentSubscription", mock.Anything, int64(1)).
		Return(nil, storage.ErrSubscriptionNotFound).Once()
	repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s *model.Subscription) bool {
		return s.UserID == 1 &&
			s.StartDate.Equal(today) &&
			s.EndDate.Equal(today.AddDate(0, 0, 30)) &&
			s.Status == model.SubscriptionStatusActive &&
			s.Type == "basic"
	})).Return(nil).Once()

	l := newLedgerAt(repo, now)
	err := l.CreateOrRenew(context.Background(), 1, 30, "basic")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "ExtendSubscription", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedger_CreateOrRenew_RepoError(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	repo := new(RepoMock)
	repo.On("GetCurrentSubscription", mock.Anything, int64(1)).
		Return(nil, assert.AnError).Once()

	l := newLedgerAt(repo, now)
	err := l.CreateOrRenew(context.Background(), 1, 30, "basic")

	assert.Error(t, err)
	repo.AssertExpectations(t)
}
