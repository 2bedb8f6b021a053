package auth

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

	libjwt "github.com/magabrotheeeer/campus-match/internal/lib/jwt"
	"github.com/magabrotheeeer/campus-match/internal/lib/password"
	"github.com/magabrotheeeer/campus-match/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegister(t *testing.T) {
	repo := new(RepoMock)
	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "alice" &&
			u.Tier == models.TierFree &&
			u.Role == "user" &&
			u.UID != "" &&
			password.CompareHash(u.PasswordHash, "secret123") == nil
	})).Return("uid-1", nil).Once()

	s := New(repo, libjwt.NewJWTMaker("key", time.Hour), newNoopLogger())
	uid, err := s.Register(context.Background(), RegisterRequest{
		Username:    "alice",
		Password:    "secret123",
		Email:       "alice@example.com",
		DateOfBirth: time.Date(2001, 1, 10, 0, 0, 0, 0, time.UTC),
		Country:     "DE",
		City:        "Berlin",
	})

	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	repo.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	user := &models.User{
		UID:          "uid-1",
		Username:     "alice",
		PasswordHash: hash,
		Role:         "user",
	}

	tests := []struct {
		name       string
		pass       string
		setupMocks func(r *RepoMock)
		wantErr    bool
	}{
		{
			name: "success",
			pass: "secret123",
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil).Once()
			},
			wantErr: false,
		},
		{
			name: "wrong password",
			pass: "wrong",
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil).Once()
			},
			wantErr: true,
		},
		{
			name: "unknown user",
			pass: "secret123",
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").
					Return(nil, errors.New("storage.GetUserByUsername: user not found")).Once()
			},
			wantErr: true,
		},
	}

	maker := libjwt.NewJWTMaker("key", time.Hour)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			s := New(repo, maker, newNoopLogger())

			result, err := s.Login(context.Background(), "alice", tt.pass)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "uid-1", result.UserUID)

			claims, err := maker.ParseToken(result.Token)
			require.NoError(t, err)
			assert.Equal(t, "alice", claims.Username)
			assert.Equal(t, "uid-1", claims.UserUID)
		})
	}
}
