package throttle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/campus-match/internal/models"
)

type StoreMock struct{ mock.Mock }

func (m *StoreMock) IncrementActionCount(ctx context.Context, subjectUID, actionType string,
	windowStart, windowEnd time.Time, limit int) (int, bool, error) {
	args := m.Called(ctx, subjectUID, actionType, windowStart, windowEnd, limit)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *StoreMock) GetActiveCooldown(ctx context.Context, subjectUID, targetUID, actionType string,
	now time.Time) (*models.CooldownEntry, error) {
	args := m.Called(ctx, subjectUID, targetUID, actionType, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CooldownEntry), args.Error(1)
}

func (m *StoreMock) UpsertCooldown(ctx context.Context, entry models.CooldownEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var now = time.Date(2025, 6, 15, 15, 30, 0, 0, time.UTC)

func newTestThrottle(store *StoreMock) *Service {
	quotas := map[string]map[string]int{
		"free":    {"like": 3, "request": 1},
		"premium": {"like": -1, "request": 5},
	}
	s := New(store, quotas, 24*time.Hour, newNoopLogger())
	s.now = func() time.Time { return now }
	return s
}

var (
	wantWindowStart = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	wantWindowEnd   = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
)

func TestCheckQuota_AllowsAndCountsDown(t *testing.T) {
	store := new(StoreMock)
	store.On("IncrementActionCount", mock.Anything, "subj", "like",
		wantWindowStart, wantWindowEnd, 3).Return(1, true, nil).Once()

	s := newTestThrottle(store)
	status, err := s.CheckQuota(context.Background(), "subj", "free", "like")

	require.NoError(t, err)
	assert.Equal(t, 2, status.Remaining)
	assert.Equal(t, wantWindowEnd, status.ResetsAt)
	store.AssertExpectations(t)
}

func TestCheckQuota_RejectsWhenExhausted(t *testing.T) {
	store := new(StoreMock)
	store.On("IncrementActionCount", mock.Anything, "subj", "like",
		wantWindowStart, wantWindowEnd, 3).Return(3, false, nil).Once()

	s := newTestThrottle(store)
	_, err := s.CheckQuota(context.Background(), "subj", "free", "like")

	var rateErr *models.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, "like", rateErr.ActionType)
	assert.Equal(t, 3, rateErr.Limit)
	assert.Equal(t, wantWindowEnd, rateErr.ResetsAt)
}

func TestCheckQuota_UnlimitedShortCircuits(t *testing.T) {
	store := new(StoreMock)

	s := newTestThrottle(store)
	status, err := s.CheckQuota(context.Background(), "subj", "premium", "like")

	require.NoError(t, err)
	assert.Equal(t, models.UnlimitedQuota, status.Remaining)
	store.AssertNotCalled(t, "IncrementActionCount")
}

func TestCheckQuota_UnknownTierFallsBackToFree(t *testing.T) {
	store := new(StoreMock)
	store.On("IncrementActionCount", mock.Anything, "subj", "like",
		wantWindowStart, wantWindowEnd, 3).Return(2, true, nil).Once()

	s := newTestThrottle(store)
	status, err := s.CheckQuota(context.Background(), "subj", "gold", "like")

	require.NoError(t, err)
	assert.Equal(t, 1, status.Remaining)
}

func TestCheckQuota_UnknownAction(t *testing.T) {
	s := newTestThrottle(new(StoreMock))
	_, err := s.CheckQuota(context.Background(), "subj", "free", "poke")
	assert.ErrorIs(t, err, models.ErrUnknownAction)
}

func TestCheckQuota_StoreErrorDoesNotGrant(t *testing.T) {
	store := new(StoreMock)
	store.On("IncrementActionCount", mock.Anything, "subj", "like",
		wantWindowStart, wantWindowEnd, 3).Return(0, false, errors.New("connection reset")).Once()

	s := newTestThrottle(store)
	status, err := s.CheckQuota(context.Background(), "subj", "free", "like")

	assert.Error(t, err)
	assert.Nil(t, status)
	var rateErr *models.RateLimitError
	assert.False(t, errors.As(err, &rateErr), "store failure is not a quota rejection")
}

func TestCheckCooldown(t *testing.T) {
	expires := now.Add(6 * time.Hour)

	tests := []struct {
		name       string
		setupMocks func(m *StoreMock)
		wantActive bool
	}{
		{
			name: "no cooldown",
			setupMocks: func(m *StoreMock) {
				m.On("GetActiveCooldown", mock.Anything, "subj", "tgt", "like", now).
					Return(nil, nil).Once()
			},
			wantActive: false,
		},
		{
			name: "active cooldown rejected with expiry",
			setupMocks: func(m *StoreMock) {
				m.On("GetActiveCooldown", mock.Anything, "subj", "tgt", "like", now).
					Return(&models.CooldownEntry{
						SubjectUID: "subj", TargetUID: "tgt",
						ActionType: "like", ExpiresAt: expires,
					}, nil).Once()
			},
			wantActive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(StoreMock)
			tt.setupMocks(store)
			s := newTestThrottle(store)

			err := s.CheckCooldown(context.Background(), "subj", "tgt", "like")

			if tt.wantActive {
				var cdErr *models.CooldownError
				require.ErrorAs(t, err, &cdErr)
				assert.Equal(t, expires, cdErr.ExpiresAt)
			} else {
				assert.NoError(t, err)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestStartCooldown(t *testing.T) {
	store := new(StoreMock)
	store.On("UpsertCooldown", mock.Anything, models.CooldownEntry{
		SubjectUID: "subj",
		TargetUID:  "tgt",
		ActionType: "like",
		ExpiresAt:  now.Add(24 * time.Hour),
	}).Return(nil).Once()

	s := newTestThrottle(store)
	err := s.StartCooldown(context.Background(), "subj", "tgt", "like")

	require.NoError(t, err)
	store.AssertExpectations(t)
}
