// Package interaction реализует сценарий выполнения действия пользователя
// (лайк, запрос в друзья, жалоба). Порядок проверок фиксирован: сначала
// политика возрастных групп, затем кулдаун пары, затем дневная квота.
// Кулдаун ставится только после успешной записи действия.
package interaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/campus-match/internal/lib/sl"
	"github.com/magabrotheeeer/campus-match/internal/models"
	"github.com/magabrotheeeer/campus-match/internal/services/throttle"
)

// SafetyGuard описывает проверку политики возрастных групп.
type SafetyGuard interface {
	CanInteract(ctx context.Context, subjectUID, targetUID string) error
}

// ThrottleGuard описывает проверки квот и кулдаунов.
type ThrottleGuard interface {
	CheckQuota(ctx context.Context, subjectUID, tier, actionType string) (*throttle.QuotaStatus, error)
	CheckCooldown(ctx context.Context, subjectUID, targetUID, actionType string) error
	StartCooldown(ctx context.Context, subjectUID, targetUID, actionType string) error
}

// Repository описывает методы хранилища, используемые сценарием.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	CreateInteraction(ctx context.Context, interaction models.Interaction) (int64, error)
	TouchLastActive(ctx context.Context, userUID string, now time.Time) error
}

// ReportPublisher публикует события жалоб для модерации.
type ReportPublisher interface {
	Publish(routingKey string, message any) error
}

// ReportEvent событие жалобы, отправляемое в очередь модерации.
type ReportEvent struct {
	InteractionID int64     `json:"interaction_id"`
	SubjectUID    string    `json:"subject_uid"`
	TargetUID     string    `json:"target_uid"`
	CreatedAt     time.Time `json:"created_at"`
}

// Result итог успешно выполненного действия.
type Result struct {
	InteractionID int64
	Remaining     int       // Остаток дневной квоты, -1 при безлимите
	ResetsAt      time.Time // Момент сброса окна квоты
}

// Service реализует сценарий выполнения действий.
type Service struct {
	safety    SafetyGuard
	throttle  ThrottleGuard
	repo      Repository
	publisher ReportPublisher
	log       *slog.Logger
	now       func() time.Time
}

// New создает новый экземпляр Service. publisher может быть nil, тогда
// события жалоб не публикуются.
func New(safety SafetyGuard, throttleGuard ThrottleGuard, repo Repository,
	publisher ReportPublisher, log *slog.Logger) *Service {
	return &Service{
		safety:    safety,
		throttle:  throttleGuard,
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func validAction(actionType string) bool {
	switch actionType {
	case models.ActionLike, models.ActionRequest, models.ActionReport:
		return true
	default:
		return false
	}
}

// Perform выполняет действие subjectUID над targetUID.
//
// Ошибки проверок возвращаются без изменений, чтобы вызывающий слой мог
// отобразить их в коды ответов: models.ErrAgeGroupMismatch,
// *models.CooldownError, *models.RateLimitError, models.ErrUnknownAction.
func (s *Service) Perform(ctx context.Context, subjectUID, targetUID, actionType string) (*Result, error) {
	const op = "interaction.Perform"

	if !validAction(actionType) {
		return nil, models.ErrUnknownAction
	}
	if subjectUID == targetUID {
		return nil, models.ErrAgeGroupMismatch
	}

	if err := s.safety.CanInteract(ctx, subjectUID, targetUID); err != nil {
		return nil, err
	}
	if err := s.throttle.CheckCooldown(ctx, subjectUID, targetUID, actionType); err != nil {
		return nil, err
	}

	subject, err := s.repo.GetUser(ctx, subjectUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status, err := s.throttle.CheckQuota(ctx, subjectUID, subject.Tier, actionType)
	if err != nil {
		return nil, err
	}

	now := s.now()
	id, err := s.repo.CreateInteraction(ctx, models.Interaction{
		SubjectUID: subjectUID,
		TargetUID:  targetUID,
		ActionType: actionType,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.throttle.StartCooldown(ctx, subjectUID, targetUID, actionType); err != nil {
		s.log.Warn("failed to start cooldown", sl.Err(err))
	}
	if err := s.repo.TouchLastActive(ctx, subjectUID, now); err != nil {
		s.log.Warn("failed to update last activity", sl.Err(err))
	}

	if actionType == models.ActionReport && s.publisher != nil {
		event := ReportEvent{
			InteractionID: id,
			SubjectUID:    subjectUID,
			TargetUID:     targetUID,
			CreatedAt:     now,
		}
		if err := s.publisher.Publish("reports", event); err != nil {
			s.log.Warn("failed to publish report event", sl.Err(err))
		}
	}

	s.log.Info("interaction performed",
		slog.String("subject", subjectUID),
		slog.String("target", targetUID),
		slog.String("action", actionType),
		slog.Int64("id", id))
	return &Result{InteractionID: id, Remaining: status.Remaining, ResetsAt: status.ResetsAt}, nil
}
