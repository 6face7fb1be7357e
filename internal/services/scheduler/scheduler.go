// Package scheduler рассылает напоминания пользователям, которые ещё не
// выбрали песню дня.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/jam/internal/lib/day"
	"github.com/magabrotheeeer/jam/internal/lib/metrics"
	"github.com/magabrotheeeer/jam/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// RecipientRepository возвращает пользователей без песни на заданный день.
type RecipientRepository interface {
	ListReminderRecipients(ctx context.Context, day string) ([]models.ReminderRecipient, error)
}

// Publisher публикует сообщения в очередь писем.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service запускает рассылку напоминаний по расписанию.
type Service struct {
	repo      RecipientRepository
	publisher Publisher
	clock     day.Clock
	log       *slog.Logger
}

// New создает Service.
func New(repo RecipientRepository, publisher Publisher, clock day.Clock, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		clock:     clock,
		log:       log,
	}
}

// Run выполняет SendReminders по cron-выражению spec в часовом поясе loc
// до отмены ctx.
func (s *Service) Run(ctx context.Context, spec string, loc *time.Location) error {
	const op = "scheduler.Run"

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() {
		if _, err := s.SendReminders(ctx); err != nil {
			s.log.Error("reminder run failed", sl.Op(op), sl.Err(err))
		}
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("scheduler started", slog.String("spec", spec), slog.String("location", loc.String()))
	c.Start()
	<-ctx.Done()

	<-c.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

// SendReminders публикует напоминание каждому пользователю без песни на
// сегодня и возвращает число опубликованных сообщений. Ошибка публикации
// одного сообщения не прерывает рассылку.
func (s *Service) SendReminders(ctx context.Context) (int, error) {
	const op = "scheduler.SendReminders"

	today := s.clock.Today()
	recipients, err := s.repo.ListReminderRecipients(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(recipients) == 0 {
		s.log.Info("no reminder recipients", slog.String("date", today))
		return 0, nil
	}

	sent := 0
	for _, r := range recipients {
		msg := models.ReminderMessage{Email: r.Email, Username: r.Username, Day: today}
		if err := s.publisher.Publish(ctx, rabbitmq.RoutingReminder, msg); err != nil {
			s.log.Error("failed to publish reminder", sl.UserUID(r.UUID), sl.Err(err))
			continue
		}
		metrics.MailsPublished.WithLabelValues(rabbitmq.RoutingReminder).Inc()
		sent++
	}
	s.log.Info("reminders published", slog.String("date", today), slog.Int("count", sent), slog.Int("total", len(recipients)))
	return sent, nil
}
