package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/campus-match/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (uid, email, username, password_hash, role, tier,
			      date_of_birth, country, city, interests, last_active_at, photo_count)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, string_to_array($10, ','), $11, $12)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.UID, user.Email, user.Username, user.PasswordHash, user.Role, user.Tier,
		user.DateOfBirth, user.Country, user.City, strings.Join(user.Interests, ","),
		user.LastActiveAt, user.PhotoCount).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, tier, date_of_birth,
			      country, city, array_to_string(interests, ','), last_active_at, photo_count
			  FROM users
			  WHERE username = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, tier, date_of_birth,
			      country, city, array_to_string(interests, ','), last_active_at, photo_count
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var interests string
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.Tier,
		&u.DateOfBirth, &u.Country, &u.City, &interests, &u.LastActiveAt, &u.PhotoCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if interests != "" {
		u.Interests = strings.Split(interests, ",")
	}
	return u, nil
}

// GetUserAgeRecord возвращает минимальную проекцию пользователя для проверки
// возрастной группы. Запись читается из базы при каждом вызове: группа
// никогда не кэшируется, поскольку возраст пересекает границы групп со временем.
func (s *Storage) GetUserAgeRecord(ctx context.Context, userUID string) (*models.UserAgeRecord, error) {
	const op = "storage.GetUserAgeRecord"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, date_of_birth FROM users WHERE uid = $1`
	rec := &models.UserAgeRecord{}
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&rec.UID, &rec.DateOfBirth); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// TouchLastActive обновляет время последней активности пользователя.
func (s *Storage) TouchLastActive(ctx context.Context, userUID string, now time.Time) error {
	const op = "storage.TouchLastActive"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET last_active_at = $1 WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, now, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
