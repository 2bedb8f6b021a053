// Package metrics содержит счётчики Prometheus для отказов политики
// возрастных групп и троттлинга. Сами метрики отдаются через promhttp
// на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PolicyRejections счётчик отказов политики возрастных групп по эндпоинтам.
var PolicyRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "campus_match_policy_rejections_total",
	Help: "Total number of age group policy rejections.",
}, []string{"endpoint"})

// ThrottleRejections счётчик отказов по квотам и кулдаунам.
var ThrottleRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "campus_match_throttle_rejections_total",
	Help: "Total number of quota and cooldown rejections.",
}, []string{"action", "reason"})

// InteractionsPerformed счётчик успешно выполненных действий.
var InteractionsPerformed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "campus_match_interactions_total",
	Help: "Total number of successfully performed interactions.",
}, []string{"action"})
