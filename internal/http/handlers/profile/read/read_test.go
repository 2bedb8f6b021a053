package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/campus-match/internal/http/middlewarectx"
	"github.com/magabrotheeeer/campus-match/internal/models"
)

// MockGuard реализует интерфейс read.Guard
type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) CanInteract(ctx context.Context, subjectUID, targetUID string) error {
	args := m.Called(ctx, subjectUID, targetUID)
	return args.Error(0)
}

// MockProfiles реализует интерфейс read.ProfileProvider
type MockProfiles struct {
	mock.Mock
}

func (m *MockProfiles) GetProfile(ctx context.Context, userUID string) (*models.DiscoveryCandidate, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.DiscoveryCandidate), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	const (
		viewerUID = "7b4ad1f5-6f04-4b95-9b6e-111111111111"
		targetUID = "7b4ad1f5-6f04-4b95-9b6e-222222222222"
	)
	profile := &models.DiscoveryCandidate{
		UID:         targetUID,
		Username:    "anna",
		DateOfBirth: time.Date(2003, 5, 1, 0, 0, 0, 0, time.UTC),
		Country:     "RU",
		City:        "Moscow",
	}

	tests := []struct {
		name           string
		targetID       string
		withUID        bool
		setupMocks     func(*MockGuard, *MockProfiles)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешный просмотр профиля",
			targetID: targetUID,
			withUID:  true,
			setupMocks: func(g *MockGuard, p *MockProfiles) {
				g.On("CanInteract", mock.Anything, viewerUID, targetUID).Return(nil)
				p.On("GetProfile", mock.Anything, targetUID).Return(profile, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"username":"anna"`,
		},
		{
			name:     "просмотр собственного профиля без проверки политики",
			targetID: viewerUID,
			withUID:  true,
			setupMocks: func(_ *MockGuard, p *MockProfiles) {
				own := &models.DiscoveryCandidate{UID: viewerUID, Username: "me"}
				p.On("GetProfile", mock.Anything, viewerUID).Return(own, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"username":"me"`,
		},
		{
			name:           "нет UID в контексте",
			targetID:       targetUID,
			withUID:        false,
			setupMocks:     func(_ *MockGuard, _ *MockProfiles) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:           "некорректный id в URL",
			targetID:       "not-a-uuid",
			withUID:        true,
			setupMocks:     func(_ *MockGuard, _ *MockProfiles) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid profile id"`,
		},
		{
			name:     "нарушение политики возрастных групп",
			targetID: targetUID,
			withUID:  true,
			setupMocks: func(g *MockGuard, _ *MockProfiles) {
				g.On("CanInteract", mock.Anything, viewerUID, targetUID).
					Return(models.ErrAgeGroupMismatch)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"error":"age_group_mismatch","message":"you cannot interact with this profile"}`,
		},
		{
			name:     "профиль не найден",
			targetID: targetUID,
			withUID:  true,
			setupMocks: func(g *MockGuard, p *MockProfiles) {
				g.On("CanInteract", mock.Anything, viewerUID, targetUID).Return(nil)
				p.On("GetProfile", mock.Anything, targetUID).Return(nil, models.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"profile not found"`,
		},
		{
			name:     "ошибка проверки политики не раскрывается",
			targetID: targetUID,
			withUID:  true,
			setupMocks: func(g *MockGuard, _ *MockProfiles) {
				g.On("CanInteract", mock.Anything, viewerUID, targetUID).
					Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not read profile"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockGuard := new(MockGuard)
			mockProfiles := new(MockProfiles)
			tt.setupMocks(mockGuard, mockProfiles)

			handler := New(logger, mockGuard, mockProfiles)

			req := httptest.NewRequest(http.MethodGet, "/profiles/"+tt.targetID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.targetID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			if tt.withUID {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, viewerUID))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockGuard.AssertExpectations(t)
			mockProfiles.AssertExpectations(t)
		})
	}
}
