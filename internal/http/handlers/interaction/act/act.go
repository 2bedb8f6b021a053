// Package act реализует HTTP-обработчик выполнения действия над профилем:
// лайк, запрос в друзья или жалоба.
//
// Порядок проверок закреплён в сервисном слое; обработчик отвечает только
// за отображение доменных ошибок в коды ответов: 403 для нарушений политики
// возрастных групп, 429 для квот и кулдаунов. При успехе в заголовках
// X-RateLimit-Remaining и X-RateLimit-Reset возвращается остаток квоты.
package act

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/campus-match/internal/http/middlewarectx"
	"github.com/magabrotheeeer/campus-match/internal/http/response"
	"github.com/magabrotheeeer/campus-match/internal/lib/sl"
	"github.com/magabrotheeeer/campus-match/internal/metrics"
	"github.com/magabrotheeeer/campus-match/internal/models"
	"github.com/magabrotheeeer/campus-match/internal/services/interaction"
)

// Request — входные данные действия.
type Request struct {
	TargetID string `json:"target_id" validate:"required,uuid"`
	Action   string `json:"action" validate:"required,oneof=like request report"`
}

// Handler обрабатывает HTTP-запросы на выполнение действий.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс сценария выполнения действия.
type Service interface {
	Perform(ctx context.Context, subjectUID, targetUID, actionType string) (*interaction.Result, error)
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
// @Summary Выполнить действие над профилем
// @Description Лайк, запрос в друзья или жалоба. Действие проходит политику возрастных групп, кулдаун пары и дневную квоту.
// @Tags Interactions
// @Accept  json
// @Produce  json
// @Param request body Request true "Целевой профиль и тип действия"
// @Success 200 {object} map[string]any "Действие выполнено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестное действие"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.PolicyViolation "Нарушение политики возрастных групп"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ThrottleRejection "Превышена квота или активен кулдаун"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /interactions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.interaction.act"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subjectUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || subjectUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	res, err := h.service.Perform(r.Context(), subjectUID, req.TargetID, req.Action)
	if err != nil {
		h.renderError(w, r, log, subjectUID, req, err)
		return
	}

	if res.Remaining != models.UnlimitedQuota {
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", res.ResetsAt.UTC().Format(time.RFC3339))
	}

	metrics.InteractionsPerformed.WithLabelValues(req.Action).Inc()
	log.Info("interaction performed", slog.Int64("id", res.InteractionID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"interaction_id": res.InteractionID,
		"remaining":      res.Remaining,
	}))
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, log *slog.Logger,
	subjectUID string, req Request, err error) {
	var rateErr *models.RateLimitError
	var cooldownErr *models.CooldownError

	switch {
	case errors.Is(err, models.ErrUnknownAction):
		log.Error("unknown action type", slog.String("action", req.Action))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown action type"))
	case errors.Is(err, models.ErrAgeGroupMismatch):
		log.Warn("interaction denied by age group policy",
			slog.String("subject", subjectUID), slog.String("target", req.TargetID))
		metrics.PolicyRejections.WithLabelValues("interactions").Inc()
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.AgeGroupMismatch())
	case errors.As(err, &rateErr):
		log.Warn("interaction denied by daily quota",
			slog.String("subject", subjectUID), slog.String("action", req.Action),
			slog.Int("limit", rateErr.Limit))
		metrics.ThrottleRejections.WithLabelValues(req.Action, "rate_limit").Inc()
		w.WriteHeader(http.StatusTooManyRequests)
		render.JSON(w, r, response.RateLimitExceeded(rateErr.ResetsAt))
	case errors.As(err, &cooldownErr):
		log.Warn("interaction denied by pair cooldown",
			slog.String("subject", subjectUID), slog.String("target", req.TargetID),
			slog.String("action", req.Action))
		metrics.ThrottleRejections.WithLabelValues(req.Action, "cooldown").Inc()
		w.WriteHeader(http.StatusTooManyRequests)
		render.JSON(w, r, response.CooldownActive(cooldownErr.ExpiresAt))
	default:
		log.Error("failed to perform interaction", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not perform interaction"))
	}
}
