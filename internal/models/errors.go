// Package models определяет доменные ошибки сервиса. Ошибки политики
// безопасности и троттлинга различаются, потому что по-разному отражаются
// в HTTP-ответах: 403 для нарушений политики, 429 для превышения лимитов.
package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrAgeGroupMismatch нарушение политики возрастных групп. Возвращается и
// когда группы не совпадают, и когда один из пользователей не найден или
// неэлигибелен: ответ не должен раскрывать, чья сторона не прошла проверку.
var ErrAgeGroupMismatch = errors.New("age group mismatch")

// ErrUserNotFound пользователь или кандидат не существует.
var ErrUserNotFound = errors.New("user not found")

// ErrUnknownAction неизвестный тип действия.
var ErrUnknownAction = errors.New("unknown action type")

// ErrUnknownMode неизвестный режим дискавери.
var ErrUnknownMode = errors.New("unknown discovery mode")

// RateLimitError превышение дневной квоты действий. ResetsAt — момент
// сброса окна, после которого повтор безопасен.
type RateLimitError struct {
	ActionType string
	Limit      int
	ResetsAt   time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for action %q: limit %d, resets at %s",
		e.ActionType, e.Limit, e.ResetsAt.Format(time.RFC3339))
}

// CooldownError действие заблокировано кулдауном между парой пользователей.
type CooldownError struct {
	ActionType string
	ExpiresAt  time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active for action %q until %s",
		e.ActionType, e.ExpiresAt.Format(time.RFC3339))
}
