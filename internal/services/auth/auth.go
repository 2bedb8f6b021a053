// Package auth содержит бизнес-логику регистрации и входа пользователей.
// Выдаёт JWT для доступа к защищённым эндпоинтам; возраст пользователя
// нигде не сохраняется — хранится только дата рождения.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	libjwt "github.com/magabrotheeeer/campus-match/internal/lib/jwt"
	"github.com/magabrotheeeer/campus-match/internal/lib/password"
	"github.com/magabrotheeeer/campus-match/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// RegisterRequest данные нового пользователя.
type RegisterRequest struct {
	Username    string
	Password    string
	Email       string
	DateOfBirth time.Time
	Country     string
	City        string
	Interests   []string
}

// LoginResult итог успешного входа.
type LoginResult struct {
	Token    string
	Role     string
	UserUID  string
	Username string
}

// Service реализует регистрацию и вход пользователей.
type Service struct {
	repo     UserRepository
	jwtMaker libjwt.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo UserRepository, jwtMaker libjwt.Maker, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя и возвращает его UID.
// Пользователи младше 15 лет могут завести аккаунт, но никогда не будут
// допущены к взаимодействиям.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (string, error) {
	const op = "auth.Register"

	hash, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		UID:          uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         "user",
		Tier:         models.TierFree,
		DateOfBirth:  req.DateOfBirth,
		Country:      req.Country,
		City:         req.City,
		Interests:    req.Interests,
		LastActiveAt: time.Now(),
	}
	uid, err := s.repo.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registered new user", slog.String("uid", uid))
	return uid, nil
}

// Login проверяет учетные данные и возвращает JWT.
func (s *Service) Login(ctx context.Context, username, pass string) (*LoginResult, error) {
	const op = "auth.Login"

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, pass); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &LoginResult{
		Token:    token,
		Role:     user.Role,
		UserUID:  user.UID,
		Username: user.Username,
	}, nil
}
