// Package register реализует HTTP-обработчик регистрации новых пользователей.
//
// Handler принимает JSON с данными профиля, валидирует их, преобразует дату
// рождения и делегирует создание пользователя сервису аутентификации.
// Возраст нигде не сохраняется: хранится только дата рождения.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/campus-match/internal/http/response"
	"github.com/magabrotheeeer/campus-match/internal/lib/sl"
	"github.com/magabrotheeeer/campus-match/internal/services/auth"
)

// Request — входные данные для регистрации.
type Request struct {
	Username    string   `json:"username" validate:"required,min=3,max=50"`
	Password    string   `json:"password" validate:"required,min=6"`
	Email       string   `json:"email" validate:"required,email"`
	DateOfBirth string   `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Country     string   `json:"country" validate:"required"`
	City        string   `json:"city" validate:"required"`
	Interests   []string `json:"interests" validate:"max=20"`
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, req auth.RegisterRequest) (string, error)
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
// @Summary Регистрация пользователя
// @Description Создает нового пользователя. Возвращает UID созданного профиля.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 200 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	dateOfBirth, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		log.Error("failed to parse date of birth", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid date_of_birth"))
		return
	}

	uid, err := h.service.Register(r.Context(), auth.RegisterRequest{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		DateOfBirth: dateOfBirth,
		Country:     req.Country,
		City:        req.City,
		Interests:   req.Interests,
	})
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	log.Info("user registered", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":      uid,
		"username": req.Username,
		"message":  "user created successfully",
	}))
}
