// Package models содержит структуры учёта квот и кулдаунов:
// окно дневного лимита, запись кулдауна и запись о совершённом действии.
package models

import "time"

// RateLimitWindow окно дневного лимита действий: одна запись на
// (пользователь, тип действия, календарный день). Создаётся лениво при
// первом действии, счётчик увеличивается атомарно.
type RateLimitWindow struct {
	SubjectUID  string
	ActionType  string
	WindowStart time.Time
	WindowEnd   time.Time
	Count       int
}

// CooldownEntry запись кулдауна между конкретной парой пользователей
// по конкретному типу действия. Существует только пока действие временно
// заблокировано; истёкшие записи игнорируются.
type CooldownEntry struct {
	SubjectUID string
	TargetUID  string
	ActionType string
	ExpiresAt  time.Time
}

// Interaction запись об успешно совершённом действии пользователя.
type Interaction struct {
	ID         int64
	SubjectUID string
	TargetUID  string
	ActionType string
	CreatedAt  time.Time
}

// Типы действий, для которых ведутся квоты и кулдауны.
const (
	ActionLike    = "like"
	ActionRequest = "request"
	ActionReport  = "report"
)

// UnlimitedQuota значение лимита, означающее отсутствие ограничения.
const UnlimitedQuota = -1
