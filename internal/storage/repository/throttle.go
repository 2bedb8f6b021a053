package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/campus-match/internal/models"
)

// IncrementActionCount атомарно создаёт или увеличивает счётчик дневного
// лимита одной командой. Инкремент выполняется только пока count < limit,
// поэтому два конкурентных запроса не могут одновременно занять последний
// слот: проверка и запись не разделены на отдельные шаги. Возвращает новое
// значение счётчика и признак, что действие разрешено.
func (s *Storage) IncrementActionCount(ctx context.Context, subjectUID, actionType string,
	windowStart, windowEnd time.Time, limit int) (int, bool, error) {
	const op = "storage.IncrementActionCount"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO rate_limit_windows AS w
			      (subject_uid, action_type, window_start, window_end, count)
			  VALUES ($1, $2, $3, $4, 1)
			  ON CONFLICT (subject_uid, action_type, window_start)
			  DO UPDATE SET count = w.count + 1
			  WHERE w.count < $5
			  RETURNING count`
	var count int
	err := s.DB.QueryRowContext(ctx, query,
		subjectUID, actionType, windowStart, windowEnd, limit).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		// Условный UPDATE не сработал: лимит уже исчерпан.
		return limit, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return count, true, nil
}

// GetActionCount возвращает текущее значение счётчика окна, 0 если окно
// ещё не создано.
func (s *Storage) GetActionCount(ctx context.Context, subjectUID, actionType string,
	windowStart time.Time) (int, error) {
	const op = "storage.GetActionCount"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT count FROM rate_limit_windows
			  WHERE subject_uid = $1 AND action_type = $2 AND window_start = $3`
	var count int
	err := s.DB.QueryRowContext(ctx, query, subjectUID, actionType, windowStart).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// GetActiveCooldown возвращает неистёкший кулдаун для пары пользователей
// и типа действия, nil если такого нет. Истёкшие записи игнорируются.
func (s *Storage) GetActiveCooldown(ctx context.Context, subjectUID, targetUID, actionType string,
	now time.Time) (*models.CooldownEntry, error) {
	const op = "storage.GetActiveCooldown"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT subject_uid, target_uid, action_type, expires_at
			  FROM cooldown_entries
			  WHERE subject_uid = $1 AND target_uid = $2 AND action_type = $3
			    AND expires_at > $4`
	entry := &models.CooldownEntry{}
	err := s.DB.QueryRowContext(ctx, query, subjectUID, targetUID, actionType, now).
		Scan(&entry.SubjectUID, &entry.TargetUID, &entry.ActionType, &entry.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entry, nil
}

// UpsertCooldown создаёт или продлевает кулдаун для пары пользователей.
func (s *Storage) UpsertCooldown(ctx context.Context, entry models.CooldownEntry) error {
	const op = "storage.UpsertCooldown"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO cooldown_entries (subject_uid, target_uid, action_type, expires_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (subject_uid, target_uid, action_type)
			  DO UPDATE SET expires_at = EXCLUDED.expires_at`
	if _, err := s.DB.ExecContext(ctx, query,
		entry.SubjectUID, entry.TargetUID, entry.ActionType, entry.ExpiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateInteraction сохраняет запись об успешно совершённом действии
// и возвращает её ID.
func (s *Storage) CreateInteraction(ctx context.Context, interaction models.Interaction) (int64, error) {
	const op = "storage.CreateInteraction"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO interactions (subject_uid, target_uid, action_type, created_at)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query,
		interaction.SubjectUID, interaction.TargetUID, interaction.ActionType,
		interaction.CreatedAt).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}
