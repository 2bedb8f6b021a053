// Package read реализует HTTP-обработчик просмотра чужого профиля.
//
// Перед выдачей профиля применяется политика возрастных групп: зритель и
// владелец профиля должны принадлежать одной группе. Отказ возвращается
// с кодом 403 и контрактным телом, не раскрывающим причину.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/campus-match/internal/http/middlewarectx"
	"github.com/magabrotheeeer/campus-match/internal/http/response"
	"github.com/magabrotheeeer/campus-match/internal/lib/sl"
	"github.com/magabrotheeeer/campus-match/internal/metrics"
	"github.com/magabrotheeeer/campus-match/internal/models"
)

// Handler обрабатывает запросы просмотра профиля по UID.
type Handler struct {
	log      *slog.Logger
	guard    Guard
	profiles ProfileProvider
	validate *validator.Validate
}

// Guard описывает проверку политики возрастных групп.
type Guard interface {
	CanInteract(ctx context.Context, subjectUID, targetUID string) error
}

// ProfileProvider описывает чтение снимка профиля.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userUID string) (*models.DiscoveryCandidate, error)
}

// New создает новый Handler с переданными логгером, гвардом и провайдером профилей.
func New(log *slog.Logger, guard Guard, profiles ProfileProvider) *Handler {
	return &Handler{
		log:      log,
		guard:    guard,
		profiles: profiles,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Просмотр профиля
// @Description Возвращает профиль пользователя, если зритель проходит политику возрастных групп.
// @Tags Profiles
// @Produce  json
// @Param id path string true "UID профиля"
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.PolicyViolation "Нарушение политики возрастных групп"
// @Failure 404 {object} response.ErrorResponse "Профиль не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /profiles/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	viewerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || viewerUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	targetUID := chi.URLParam(r, "id")
	if err := h.validate.Var(targetUID, "required,uuid"); err != nil {
		log.Error("invalid profile id in url", slog.String("id", targetUID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid profile id"))
		return
	}

	if viewerUID != targetUID {
		if err := h.guard.CanInteract(r.Context(), viewerUID, targetUID); err != nil {
			if errors.Is(err, models.ErrAgeGroupMismatch) {
				log.Warn("profile view denied by age group policy",
					slog.String("viewer", viewerUID), slog.String("target", targetUID))
				metrics.PolicyRejections.WithLabelValues("profile").Inc()
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.AgeGroupMismatch())
				return
			}
			log.Error("failed to check age group policy", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read profile"))
			return
		}
	}

	profile, err := h.profiles.GetProfile(r.Context(), targetUID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("profile not found", slog.String("target", targetUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
			return
		}
		log.Error("failed to read profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read profile"))
		return
	}

	log.Info("profile read", slog.String("target", targetUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"profile": profile,
	}))
}
