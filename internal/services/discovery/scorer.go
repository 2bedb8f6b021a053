// Package discovery реализует скоринг и ранжирование кандидатов дискавери.
//
// Пять независимых чистых факторов: близость возраста, география, общие
// интересы, свежесть активности и заполненность профиля. Итоговый балл —
// сумма факторов под таблицей весов выбранного режима, без дополнительной
// нормализации.
package discovery

import (
	"math"
	"time"

	"github.com/magabrotheeeer/campus-match/internal/models"
)

const (
	ageGapPenaltyPerYear = 10.0
	interestTagBaseline  = 5.0
	photoCountSaturation = 5
	recentActivityWindow = 24 * time.Hour
	staleActivityFactor  = 0.3
	sameCountryFactor    = 0.5
)

// Таблицы весов режимов дискавери. Локальный режим учитывает географию,
// глобальный обнуляет её и сильнее весит интересы и активность.
var (
	localWeights = models.ScoreWeights{
		Age:            100,
		Location:       70,
		Interest:       80,
		Activity:       50,
		ProfileQuality: 30,
	}
	globalWeights = models.ScoreWeights{
		Age:            100,
		Location:       0,
		Interest:       120,
		Activity:       80,
		ProfileQuality: 30,
	}
)

// WeightsForMode возвращает таблицу весов режима дискавери.
func WeightsForMode(mode string) (models.ScoreWeights, error) {
	switch mode {
	case models.ModeLocal:
		return localWeights, nil
	case models.ModeGlobal:
		return globalWeights, nil
	default:
		return models.ScoreWeights{}, models.ErrUnknownMode
	}
}

// AgeScore строго убывает с разницей возрастов и обнуляется, когда разрыв
// достигает weight/10 лет.
func AgeScore(viewerAge, candidateAge int, weight float64) float64 {
	gap := math.Abs(float64(viewerAge - candidateAge))
	return math.Max(0, weight-gap*ageGapPenaltyPerYear)
}

// LocationScore ступенчатая функция: полный вес за общий город, половина
// за общую страну, ноль за разные страны. Не метрика расстояния.
func LocationScore(viewerCountry, viewerCity, candidateCountry, candidateCity string, weight float64) float64 {
	switch {
	case viewerCountry == candidateCountry && viewerCity == candidateCity:
		return weight
	case viewerCountry == candidateCountry:
		return weight * sameCountryFactor
	default:
		return 0
	}
}

// InterestScore пропорционален количеству общих тегов, пять общих тегов
// дают полный вес. Сверху не ограничен: при более чем пяти пересечениях
// значение превышает вес, это ожидаемое поведение.
func InterestScore(viewerTags, candidateTags []string, weight float64) float64 {
	seen := make(map[string]struct{}, len(viewerTags))
	for _, tag := range viewerTags {
		seen[tag] = struct{}{}
	}
	shared := 0
	for _, tag := range candidateTags {
		if _, ok := seen[tag]; ok {
			shared++
			delete(seen, tag)
		}
	}
	return float64(shared) / interestTagBaseline * weight
}

// ActivityScore бинарная корзина свежести: полный вес за активность в
// последние сутки, иначе 30% веса.
func ActivityScore(lastActiveAt, now time.Time, weight float64) float64 {
	if now.Sub(lastActiveAt) < recentActivityWindow {
		return weight
	}
	return weight * staleActivityFactor
}

// ProfileQualityScore растёт с числом фотографий и насыщается на пяти.
func ProfileQualityScore(photoCount int, weight float64) float64 {
	if photoCount > photoCountSaturation {
		photoCount = photoCountSaturation
	}
	if photoCount < 0 {
		photoCount = 0
	}
	return float64(photoCount) / photoCountSaturation * weight
}
