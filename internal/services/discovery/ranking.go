package discovery

import (
	"sort"
	"time"

	"github.com/magabrotheeeer/campus-match/internal/lib/agegroup"
	"github.com/magabrotheeeer/campus-match/internal/models"
)

// TotalScore вычисляет итоговый балл кандидата относительно зрителя:
// сумму пяти факторов под таблицей весов weights.
func TotalScore(viewer, candidate models.DiscoveryCandidate, weights models.ScoreWeights, now time.Time) float64 {
	viewerAge := agegroup.Age(viewer.DateOfBirth, now)
	candidateAge := agegroup.Age(candidate.DateOfBirth, now)

	total := AgeScore(viewerAge, candidateAge, weights.Age)
	total += LocationScore(viewer.Country, viewer.City, candidate.Country, candidate.City, weights.Location)
	total += InterestScore(viewer.Interests, candidate.Interests, weights.Interest)
	total += ActivityScore(candidate.LastActiveAt, now, weights.Activity)
	total += ProfileQualityScore(candidate.PhotoCount, weights.ProfileQuality)
	return total
}

// Rank считает балл каждого кандидата и возвращает новый список,
// отсортированный по убыванию балла. При равных баллах порядок
// детерминирован: вторичный ключ — возрастание UID кандидата.
// Входной список не изменяется.
func Rank(viewer models.DiscoveryCandidate, candidates []models.DiscoveryCandidate,
	weights models.ScoreWeights, now time.Time) []models.RankedCandidate {
	ranked := make([]models.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, models.RankedCandidate{
			Candidate: c,
			Score:     TotalScore(viewer, c, weights, now),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Candidate.UID < ranked[j].Candidate.UID
	})
	return ranked
}
