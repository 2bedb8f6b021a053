// Package safety реализует проверку политики возрастных групп — главный
// инвариант безопасности приложения. Проверка симметрична, выполняется
// заново при каждом обращении и при любой неопределённости запрещает
// взаимодействие (fail-closed).
package safety

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/campus-match/internal/lib/agegroup"
	"github.com/magabrotheeeer/campus-match/internal/models"
)

// UserAgeProvider описывает чтение минимальной возрастной проекции
// пользователя из хранилища.
type UserAgeProvider interface {
	GetUserAgeRecord(ctx context.Context, userUID string) (*models.UserAgeRecord, error)
}

// Service проверяет допустимость взаимодействия между двумя пользователями.
type Service struct {
	repo UserAgeProvider
	log  *slog.Logger
	now  func() time.Time
}

// New создает новый экземпляр Service.
func New(repo UserAgeProvider, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// CanInteract разрешает взаимодействие только когда оба пользователя
// классифицируются в одну и ту же возрастную группу. Даты рождения
// перечитываются из хранилища на каждой проверке, результат не кэшируется.
//
// Любая причина отказа — несовпадение групп, неэлигибельный или
// отсутствующий пользователь — возвращается как единая ошибка
// models.ErrAgeGroupMismatch, не раскрывающая, какая сторона не прошла
// проверку.
func (s *Service) CanInteract(ctx context.Context, subjectUID, targetUID string) error {
	const op = "safety.CanInteract"

	subject, err := s.repo.GetUserAgeRecord(ctx, subjectUID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.log.Warn("interaction denied: subject missing", slog.String("subject", subjectUID))
			return models.ErrAgeGroupMismatch
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	target, err := s.repo.GetUserAgeRecord(ctx, targetUID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.log.Warn("interaction denied: target missing", slog.String("target", targetUID))
			return models.ErrAgeGroupMismatch
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	subjectGroup, subjectOK := agegroup.Classify(subject.DateOfBirth, now)
	targetGroup, targetOK := agegroup.Classify(target.DateOfBirth, now)

	if !subjectOK || !targetOK || subjectGroup != targetGroup {
		s.log.Info("interaction denied by age group policy",
			slog.String("subject", subjectUID),
			slog.String("target", targetUID))
		return models.ErrAgeGroupMismatch
	}
	return nil
}
