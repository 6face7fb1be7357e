// Package sender обрабатывает сообщения очереди писем и отправляет их по SMTP.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// Mailer отправляет одно текстовое письмо.
type Mailer interface {
	Send(to, subject, body string) error
}

// Service превращает сообщения очереди в письма.
type Service struct {
	mailer Mailer
	log    *slog.Logger
}

// New создает Service.
func New(mailer Mailer, log *slog.Logger) *Service {
	return &Service{mailer: mailer, log: log}
}

// HandleVerification отправляет письмо со ссылкой подтверждения почты.
// Некорректные сообщения отбрасываются, ошибка SMTP возвращается для повтора.
func (s *Service) HandleVerification(ctx context.Context, body []byte) error {
	const op = "sender.HandleVerification"

	var msg models.VerificationMessage
	if err := json.Unmarshal(body, &msg); err != nil || msg.Email == "" {
		s.log.Error("dropping malformed message", sl.Op(op), sl.Err(err))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := "Подтвердите почту в Jam"
	text := fmt.Sprintf("Здравствуйте!\n\nЧтобы подтвердить почту, перейдите по ссылке:\n%s\n\n"+
		"Если вы не регистрировались в Jam, просто проигнорируйте это письмо.", msg.Link)
	if err := s.mailer.Send(msg.Email, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("verification mail sent", slog.String("to", msg.Email))
	return nil
}

// HandleReminder отправляет напоминание выбрать песню дня.
func (s *Service) HandleReminder(ctx context.Context, body []byte) error {
	const op = "sender.HandleReminder"

	var msg models.ReminderMessage
	if err := json.Unmarshal(body, &msg); err != nil || msg.Email == "" {
		s.log.Error("dropping malformed message", sl.Op(op), sl.Err(err))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := "Вы ещё не выбрали песню дня"
	text := fmt.Sprintf("Привет, %s!\n\nСегодня (%s) вы ещё не поделились песней дня. "+
		"Загляните в Jam и выберите трек.", msg.Username, msg.Day)
	if err := s.mailer.Send(msg.Email, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("reminder mail sent", slog.String("to", msg.Email))
	return nil
}
