// Package agegroup реализует классификацию пользователей по возрастным
// группам. Это единственная каноническая реализация: возраст всегда
// вычисляется из даты рождения на момент проверки и нигде не кэшируется,
// потому что сохранённый возраст со временем устаревает.
package agegroup

import "time"

// Group возрастная группа пользователя. Группы взаимно изолированы:
// взаимодействия разрешены только внутри одной группы.
type Group string

const (
	// GroupMinor группа 15-17 лет.
	GroupMinor Group = "minor"
	// GroupAdult группа 18 лет и старше.
	GroupAdult Group = "adult"
)

const (
	minEligibleAge = 15
	adultAge       = 18
)

// Age возвращает полный возраст в годах на момент now с учётом того,
// наступил ли день рождения в текущем году.
func Age(dateOfBirth, now time.Time) int {
	age := now.Year() - dateOfBirth.Year()
	if now.Month() < dateOfBirth.Month() ||
		(now.Month() == dateOfBirth.Month() && now.Day() < dateOfBirth.Day()) {
		age--
	}
	return age
}

// Classify относит дату рождения к возрастной группе на момент now.
// Пользователи младше 15 лет неэлигибельны: для них возвращается
// ok == false, и они не могут взаимодействовать ни с кем.
func Classify(dateOfBirth, now time.Time) (Group, bool) {
	age := Age(dateOfBirth, now)
	switch {
	case age < minEligibleAge:
		return "", false
	case age < adultAge:
		return GroupMinor, true
	default:
		return GroupAdult, true
	}
}

// Bounds возвращает границы дат рождения для группы на момент now:
// кандидаты группы рождены строго после after и не позже onOrBefore.
// Для взрослых нижней границы нет, after остаётся нулевым временем.
func Bounds(group Group, now time.Time) (after, onOrBefore time.Time) {
	switch group {
	case GroupMinor:
		return now.AddDate(-adultAge, 0, 0), now.AddDate(-minEligibleAge, 0, 0)
	default:
		return time.Time{}, now.AddDate(-adultAge, 0, 0)
	}
}
