package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/jam/internal/lib/sl"
)

// Consume читает очередь queueName и вызывает handler для каждого сообщения,
// не более prefetch обработчиков одновременно. Успешно обработанные сообщения
// подтверждаются, остальные возвращаются в очередь.
func Consume(ctx context.Context, ch *amqp.Channel, queueName string, log *slog.Logger, handler func(context.Context, []byte) error) error {
	const op = "rabbitmq.Consume"

	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))
	sem := make(chan struct{}, prefetch)

	go func() {
		for {
			select {
			case d, ok := <-deliveries:
				if !ok {
					log.Info("delivery channel closed")
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(ctx, d.Body); err != nil {
						log.Error("failed to handle message", sl.Err(err))
						if err := d.Nack(false, true); err != nil {
							log.Error("failed to nack message", sl.Err(err))
						}
						return
					}
					if err := d.Ack(false); err != nil {
						log.Error("failed to ack message", sl.Err(err))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
