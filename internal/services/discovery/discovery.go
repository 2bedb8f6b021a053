package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/campus-match/internal/lib/agegroup"
	"github.com/magabrotheeeer/campus-match/internal/lib/sl"
	"github.com/magabrotheeeer/campus-match/internal/models"
)

// CandidateRepository определяет методы чтения профилей дискавери
// из хранилища.
type CandidateRepository interface {
	// GetDiscoveryProfile возвращает снимок профиля по UID.
	GetDiscoveryProfile(ctx context.Context, userUID string) (*models.DiscoveryCandidate, error)
	// ListCandidates возвращает кандидатов с датой рождения в заданных границах.
	ListCandidates(ctx context.Context, viewerUID string, bornAfter, bornOnOrBefore time.Time,
		limit, offset int) ([]models.DiscoveryCandidate, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Кеш страниц выдачи короткоживущий: ранжирование зависит от текущего
// времени, а защита возрастных групп всё равно применяется на каждом
// взаимодействии заново.
const listCacheTTL = time.Minute

// Service реализует выдачу дискавери: пул кандидатов ограничивается
// возрастной группой зрителя ещё в запросе к базе, после чего кандидаты
// скорятся и ранжируются.
type Service struct {
	repo  CandidateRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// New создает новый экземпляр Service.
func New(repo CandidateRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// List возвращает отранжированную страницу кандидатов для зрителя.
// Зритель младше 15 лет не допускается к дискавери вовсе.
func (s *Service) List(ctx context.Context, viewerUID, mode string, limit, offset int) ([]models.RankedCandidate, error) {
	const op = "discovery.List"

	weights, err := WeightsForMode(mode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheKey := fmt.Sprintf("discovery:%s:%s:%d:%d", viewerUID, mode, limit, offset)
	var cached []models.RankedCandidate
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read discovery cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	viewer, err := s.repo.GetDiscoveryProfile(ctx, viewerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	group, ok := agegroup.Classify(viewer.DateOfBirth, now)
	if !ok {
		s.log.Warn("discovery denied for ineligible viewer", slog.String("viewer", viewerUID))
		return nil, models.ErrAgeGroupMismatch
	}

	bornAfter, bornOnOrBefore := agegroup.Bounds(group, now)
	candidates, err := s.repo.ListCandidates(ctx, viewerUID, bornAfter, bornOnOrBefore, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ranked := Rank(*viewer, candidates, weights, now)

	if err := s.cache.Set(cacheKey, ranked, listCacheTTL); err != nil {
		s.log.Warn("failed to cache discovery page", slog.String("key", cacheKey), sl.Err(err))
	}
	return ranked, nil
}

// GetProfile возвращает снимок профиля кандидата.
func (s *Service) GetProfile(ctx context.Context, userUID string) (*models.DiscoveryCandidate, error) {
	return s.repo.GetDiscoveryProfile(ctx, userUID)
}
