// Package models содержит доменную модель пользователя приложения,
// включающую данные учётной записи, профиль для дискавери
// и минимальную проекцию для проверки возрастной группы.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или user
	Tier         string    // Тариф пользователя: free или premium
	DateOfBirth  time.Time // Дата рождения, единственный источник возраста
	Country      string    // Страна проживания
	City         string    // Город проживания
	Interests    []string  // Теги интересов
	LastActiveAt time.Time // Время последней активности
	PhotoCount   int       // Количество фотографий в профиле
}

// UserAgeRecord минимальная проекция пользователя для проверки возрастной
// группы. Возраст всегда выводится из DateOfBirth и никогда не принимается
// от клиента; запись перечитывается из базы при каждой проверке.
type UserAgeRecord struct {
	UID         string
	DateOfBirth time.Time
}

// Тарифы пользователей.
const (
	TierFree    = "free"
	TierPremium = "premium"
)
