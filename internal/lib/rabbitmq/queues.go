package rabbitmq

// MailExchange - обменник почтовых уведомлений.
const MailExchange = "mail"

// Ключи маршрутизации почтовых сообщений.
const (
	RoutingVerification = "verification"
	RoutingReminder     = "reminder"
)

// Очереди почтовых сообщений.
const (
	QueueVerification = "mail.verification"
	QueueReminder     = "mail.reminder"
)

const prefetch = 10

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// MailQueues возвращает очереди, которые слушает sender.
func MailQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueVerification, RoutingKey: RoutingVerification},
		{QueueName: QueueReminder, RoutingKey: RoutingReminder},
	}
}
