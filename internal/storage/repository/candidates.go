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

// GetDiscoveryProfile возвращает снимок профиля кандидата для выдачи
// и скоринга.
func (s *Storage) GetDiscoveryProfile(ctx context.Context, userUID string) (*models.DiscoveryCandidate, error) {
	const op = "storage.GetDiscoveryProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, date_of_birth, country, city,
			      array_to_string(interests, ','), last_active_at, photo_count
			  FROM users
			  WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var c models.DiscoveryCandidate
	var interests string
	if err := row.Scan(&c.UID, &c.Username, &c.DateOfBirth, &c.Country, &c.City,
		&interests, &c.LastActiveAt, &c.PhotoCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if interests != "" {
		c.Interests = strings.Split(interests, ",")
	}
	return &c, nil
}

// ListCandidates возвращает кандидатов для дискавери, рождённых строго после
// bornAfter и не позже bornOnOrBefore. Границы соответствуют возрастной
// группе зрителя, поэтому чужая группа не попадает даже в сырой пул.
// Нулевое bornAfter означает отсутствие нижней границы.
func (s *Storage) ListCandidates(ctx context.Context, viewerUID string,
	bornAfter, bornOnOrBefore time.Time, limit, offset int) ([]models.DiscoveryCandidate, error) {
	const op = "storage.ListCandidates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, date_of_birth, country, city,
			      array_to_string(interests, ','), last_active_at, photo_count
			  FROM users
			  WHERE uid <> $1
			    AND date_of_birth > $2
			    AND date_of_birth <= $3
			  ORDER BY uid
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query, viewerUID, bornAfter, bornOnOrBefore, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.DiscoveryCandidate
	for rows.Next() {
		var c models.DiscoveryCandidate
		var interests string
		if err := rows.Scan(&c.UID, &c.Username, &c.DateOfBirth, &c.Country, &c.City,
			&interests, &c.LastActiveAt, &c.PhotoCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if interests != "" {
			c.Interests = strings.Split(interests, ",")
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
