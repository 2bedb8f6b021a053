package discovery

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/campus-match/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetDiscoveryProfile(ctx context.Context, userUID string) (*models.DiscoveryCandidate, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscoveryCandidate), args.Error(1)
}

func (m *RepoMock) ListCandidates(ctx context.Context, viewerUID string, bornAfter, bornOnOrBefore time.Time,
	limit, offset int) ([]models.DiscoveryCandidate, error) {
	args := m.Called(ctx, viewerUID, bornAfter, bornOnOrBefore, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DiscoveryCandidate), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestDiscovery(repo *RepoMock, cache *CacheMock) *Service {
	s := New(repo, cache, newNoopLogger())
	s.now = func() time.Time { return now }
	return s
}

func TestList_RanksCandidatePool(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	viewer := adultCandidate("viewer", 24)
	near := adultCandidate("uid-near", 25)
	far := adultCandidate("uid-far", 45)

	cache.On("Get", "discovery:viewer:local:20:0", mock.Anything).Return(false, nil).Once()
	repo.On("GetDiscoveryProfile", mock.Anything, "viewer").Return(&viewer, nil).Once()
	repo.On("ListCandidates", mock.Anything, "viewer", mock.Anything, mock.Anything, 20, 0).
		Return([]models.DiscoveryCandidate{far, near}, nil).Once()
	cache.On("Set", "discovery:viewer:local:20:0", mock.Anything, time.Minute).Return(nil).Once()

	s := newTestDiscovery(repo, cache)
	got, err := s.List(context.Background(), "viewer", models.ModeLocal, 20, 0)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "uid-near", got[0].Candidate.UID)
	assert.Greater(t, got[0].Score, got[1].Score)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestList_CacheHitSkipsRepository(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	cached := []models.RankedCandidate{{Candidate: adultCandidate("uid-1", 22), Score: 210}}
	cache.On("Get", "discovery:viewer:global:10:0", mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(1).(*[]models.RankedCandidate)
			*out = cached
		}).Return(true, nil).Once()

	s := newTestDiscovery(repo, cache)
	got, err := s.List(context.Background(), "viewer", models.ModeGlobal, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, cached, got)
	repo.AssertNotCalled(t, "GetDiscoveryProfile")
	repo.AssertNotCalled(t, "ListCandidates")
}

func TestList_IneligibleViewerDenied(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	viewer := adultCandidate("viewer", 14)
	cache.On("Get", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("GetDiscoveryProfile", mock.Anything, "viewer").Return(&viewer, nil).Once()

	s := newTestDiscovery(repo, cache)
	_, err := s.List(context.Background(), "viewer", models.ModeLocal, 20, 0)

	assert.ErrorIs(t, err, models.ErrAgeGroupMismatch)
	repo.AssertNotCalled(t, "ListCandidates")
}

func TestList_UnknownMode(t *testing.T) {
	s := newTestDiscovery(new(RepoMock), new(CacheMock))
	_, err := s.List(context.Background(), "viewer", "nearby", 20, 0)
	assert.ErrorIs(t, err, models.ErrUnknownMode)
}

// Границы пула для несовершеннолетнего зрителя не пересекаются со взрослой
// группой: кандидаты строго младше 18 и не младше 15.
func TestList_MinorPoolBounds(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	viewer := adultCandidate("viewer", 16)
	cache.On("Get", mock.Anything, mock.Anything).Return(false, nil).Once()
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("GetDiscoveryProfile", mock.Anything, "viewer").Return(&viewer, nil).Once()
	repo.On("ListCandidates", mock.Anything, "viewer",
		now.AddDate(-18, 0, 0), now.AddDate(-15, 0, 0), 20, 0).
		Return([]models.DiscoveryCandidate{}, nil).Once()

	s := newTestDiscovery(repo, cache)
	_, err := s.List(context.Background(), "viewer", models.ModeLocal, 20, 0)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
