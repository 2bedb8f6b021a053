// Package models содержит доменные структуры дискавери: снимок кандидата,
// таблицу весов скоринга и элемент отранжированной выдачи.
package models

import "time"

// DiscoveryCandidate снимок профиля кандидата, используемый только для
// скоринга. Скоринг никогда не изменяет кандидата.
type DiscoveryCandidate struct {
	UID          string    `json:"uid"`
	Username     string    `json:"username"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	Interests    []string  `json:"interests"`
	LastActiveAt time.Time `json:"last_active_at"`
	PhotoCount   int       `json:"photo_count"`
}

// ScoreWeights именованная таблица весов для пяти факторов скоринга.
// Для каждого режима дискавери существует своя таблица.
type ScoreWeights struct {
	Age            float64
	Location       float64
	Interest       float64
	Activity       float64
	ProfileQuality float64
}

// RankedCandidate элемент выдачи дискавери: кандидат вместе с его итоговым
// баллом. Список всегда отсортирован по убыванию Score.
type RankedCandidate struct {
	Candidate DiscoveryCandidate `json:"candidate"`
	Score     float64            `json:"score"`
}

// Режимы дискавери.
const (
	ModeLocal  = "local"
	ModeGlobal = "global"
)
