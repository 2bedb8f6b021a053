// Package list реализует HTTP-обработчик страницы дискавери.
//
// Handler разбирает параметры запроса (режим, limit, offset), извлекает UID
// зрителя из контекста и возвращает отранжированный список кандидатов.
// Зритель вне допустимого возраста получает 403 с контрактным телом отказа.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/campus-match/internal/http/middlewarectx"
	"github.com/magabrotheeeer/campus-match/internal/http/response"
	"github.com/magabrotheeeer/campus-match/internal/lib/sl"
	"github.com/magabrotheeeer/campus-match/internal/metrics"
	"github.com/magabrotheeeer/campus-match/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Handler обрабатывает запросы страницы дискавери.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики дискавери.
type Service interface {
	List(ctx context.Context, viewerUID, mode string, limit, offset int) ([]models.RankedCandidate, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Страница дискавери
// @Description Возвращает отранжированный список кандидатов для текущего пользователя.
// @Tags Discovery
// @Produce  json
// @Param mode query string false "Режим дискавери: local или global" default(local)
// @Param limit query int false "Размер страницы" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список кандидатов"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.PolicyViolation "Пользователь вне допустимого возраста"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /discovery [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.discovery.list"

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

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = models.ModeLocal
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > maxLimit {
			log.Error("invalid limit parameter", slog.String("limit", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid limit"))
			return
		}
		limit = v
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			log.Error("invalid offset parameter", slog.String("offset", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid offset"))
			return
		}
		offset = v
	}

	ranked, err := h.service.List(r.Context(), viewerUID, mode, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnknownMode):
			log.Error("unknown discovery mode", slog.String("mode", mode))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown discovery mode"))
		case errors.Is(err, models.ErrAgeGroupMismatch):
			log.Warn("discovery denied by age group policy", slog.String("viewer", viewerUID))
			metrics.PolicyRejections.WithLabelValues("discovery").Inc()
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.AgeGroupMismatch())
		default:
			log.Error("failed to build discovery page", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not build discovery page"))
		}
		return
	}

	log.Info("discovery page built", slog.Int("candidates", len(ranked)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"mode":       mode,
		"candidates": ranked,
	}))
}
