// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: успешные ответы, ошибки
// валидации, а также контрактные тела отказов политики возрастных групп
// и троттлинга.
package response

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// PolicyViolation тело ответа 403 при нарушении политики возрастных групп.
// Ровно два поля: ответ не должен раскрывать, чья сторона не прошла
// классификацию.
type PolicyViolation struct {
	Error   string `json:"error" example:"age_group_mismatch"`
	Message string `json:"message" example:"you cannot interact with this profile"`
}

// ThrottleRejection тело ответа 429 при превышении квоты или активном
// кулдауне. Время повтора передаётся в ISO-8601.
type ThrottleRejection struct {
	Message   string `json:"message"`
	Code      string `json:"code" example:"RATE_LIMIT_EXCEEDED"`
	ResetsAt  string `json:"resets_at,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"

	// CodeRateLimitExceeded — код отказа по дневной квоте.
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	// CodeCooldownActive — код отказа по кулдауну пары.
	CodeCooldownActive = "COOLDOWN_ACTIVE"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// AgeGroupMismatch возвращает контрактное тело отказа политики возрастных
// групп.
func AgeGroupMismatch() PolicyViolation {
	return PolicyViolation{
		Error:   "age_group_mismatch",
		Message: "you cannot interact with this profile",
	}
}

// RateLimitExceeded возвращает тело отказа по дневной квоте.
func RateLimitExceeded(resetsAt time.Time) ThrottleRejection {
	return ThrottleRejection{
		Message:  "daily action limit reached",
		Code:     CodeRateLimitExceeded,
		ResetsAt: resetsAt.UTC().Format(time.RFC3339),
	}
}

// CooldownActive возвращает тело отказа по кулдауну пары.
func CooldownActive(expiresAt time.Time) ThrottleRejection {
	return ThrottleRejection{
		Message:   "action is on cooldown for this profile",
		Code:      CodeCooldownActive,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has an unsupported value", err.Field()))
		case "datetime=2006-01-02":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only date in format 2006-01-02", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
