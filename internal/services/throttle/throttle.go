// Package throttle реализует два независимых механизма защиты
// интерактивных эндпоинтов: дневные квоты действий по тарифу пользователя
// и кулдауны между конкретной парой пользователей. Квота учитывается одной
// атомарной операцией хранилища, поэтому конкурентные запросы не могут
// вдвоём занять последний слот.
package throttle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/campus-match/internal/models"
)

// CounterStore описывает методы персистентного хранилища счётчиков
// и кулдаунов.
type CounterStore interface {
	// IncrementActionCount атомарно увеличивает счётчик окна, пока он ниже
	// лимита. Возвращает новое значение и признак, что действие разрешено.
	IncrementActionCount(ctx context.Context, subjectUID, actionType string,
		windowStart, windowEnd time.Time, limit int) (int, bool, error)
	// GetActiveCooldown возвращает неистёкший кулдаун пары, nil если его нет.
	GetActiveCooldown(ctx context.Context, subjectUID, targetUID, actionType string,
		now time.Time) (*models.CooldownEntry, error)
	// UpsertCooldown создаёт или продлевает кулдаун пары.
	UpsertCooldown(ctx context.Context, entry models.CooldownEntry) error
}

// QuotaStatus результат успешной проверки квоты.
type QuotaStatus struct {
	Remaining int       // Оставшиеся попытки в окне, -1 при безлимите
	ResetsAt  time.Time // Момент сброса окна
}

// Service реализует проверку квот и кулдаунов.
type Service struct {
	store       CounterStore
	quotas      map[string]map[string]int
	cooldownTTL time.Duration
	log         *slog.Logger
	now         func() time.Time
}

// New создает новый экземпляр Service. quotas: тариф -> тип действия -> лимит.
func New(store CounterStore, quotas map[string]map[string]int, cooldownTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		store:       store,
		quotas:      quotas,
		cooldownTTL: cooldownTTL,
		log:         log,
		now:         time.Now,
	}
}

// limitFor возвращает дневной лимит действия для тарифа. Неизвестный тариф
// трактуется как free, неизвестное действие запрещено.
func (s *Service) limitFor(tier, actionType string) (int, error) {
	actions, ok := s.quotas[tier]
	if !ok {
		actions = s.quotas[models.TierFree]
	}
	limit, ok := actions[actionType]
	if !ok {
		return 0, models.ErrUnknownAction
	}
	return limit, nil
}

// window возвращает границы текущего календарного дня. Граница суток
// фиксирована в UTC, чтобы окно было одинаковым для всех инстансов.
func (s *Service) window() (start, end time.Time) {
	start = s.now().UTC().Truncate(24 * time.Hour)
	return start, start.Add(24 * time.Hour)
}

// CheckQuota проверяет и сразу занимает один слот дневной квоты.
// Безлимитный тариф (-1) разрешает действие без обращения к хранилищу.
// При исчерпании квоты возвращается *models.RateLimitError со временем
// сброса окна.
func (s *Service) CheckQuota(ctx context.Context, subjectUID, tier, actionType string) (*QuotaStatus, error) {
	const op = "throttle.CheckQuota"

	limit, err := s.limitFor(tier, actionType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	windowStart, windowEnd := s.window()
	if limit == models.UnlimitedQuota {
		return &QuotaStatus{Remaining: models.UnlimitedQuota, ResetsAt: windowEnd}, nil
	}

	count, allowed, err := s.store.IncrementActionCount(ctx, subjectUID, actionType, windowStart, windowEnd, limit)
	if err != nil {
		// Неоднозначный сбой хранилища: действие считается НЕ выполненным,
		// слот не выдаётся.
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !allowed {
		s.log.Info("daily quota exceeded",
			slog.String("subject", subjectUID),
			slog.String("action", actionType),
			slog.Int("limit", limit))
		return nil, &models.RateLimitError{ActionType: actionType, Limit: limit, ResetsAt: windowEnd}
	}
	return &QuotaStatus{Remaining: limit - count, ResetsAt: windowEnd}, nil
}

// CheckCooldown проверяет, не заблокировано ли действие кулдауном между
// парой пользователей. При активном кулдауне возвращается
// *models.CooldownError со временем его истечения.
func (s *Service) CheckCooldown(ctx context.Context, subjectUID, targetUID, actionType string) error {
	const op = "throttle.CheckCooldown"

	entry, err := s.store.GetActiveCooldown(ctx, subjectUID, targetUID, actionType, s.now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if entry != nil {
		return &models.CooldownError{ActionType: actionType, ExpiresAt: entry.ExpiresAt}
	}
	return nil
}

// StartCooldown ставит кулдаун пары после успешно совершённого действия.
func (s *Service) StartCooldown(ctx context.Context, subjectUID, targetUID, actionType string) error {
	const op = "throttle.StartCooldown"

	entry := models.CooldownEntry{
		SubjectUID: subjectUID,
		TargetUID:  targetUID,
		ActionType: actionType,
		ExpiresAt:  s.now().Add(s.cooldownTTL),
	}
	if err := s.store.UpsertCooldown(ctx, entry); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
