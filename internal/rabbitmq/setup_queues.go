package rabbitmq

// ModerationExchange exchange для событий модерации.
const ModerationExchange = "moderation"

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetModerationQueues возвращает очереди, которые слушают воркеры модерации.
func GetModerationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "moderation.reports", RoutingKey: "reports"},
	}
}
