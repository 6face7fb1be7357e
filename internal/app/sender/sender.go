// Package sender собирает обработчик очереди писем.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/jam/internal/config"
	"github.com/magabrotheeeer/jam/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/jam/internal/services/sender"
)

// App читает очереди писем и отправляет их по SMTP.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключается к RabbitMQ и настраивает отправку писем.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQRetries, cfg.RabbitMQDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.MailExchange, rabbitmq.MailQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	mailer := smtp.NewMailer(smtp.NewTransport(cfg.SMTP, logger))
	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.New(mailer, logger),
		logger:        logger,
	}, nil
}

// Run запускает потребителей очередей и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	handlers := map[string]func(context.Context, []byte) error{
		rabbitmq.QueueVerification: a.senderService.HandleVerification,
		rabbitmq.QueueReminder:     a.senderService.HandleReminder,
	}
	for queue, handler := range handlers {
		if err := rabbitmq.Consume(ctx, a.ch, queue, a.logger, handler); err != nil {
			a.close()
			return err
		}
		a.logger.Info("consuming queue", slog.String("queue", queue))
	}

	<-ctx.Done()
	a.logger.Info("shutting down sender service")
	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
