// Package comments реализует ленту комментариев к песне дня.
//
// Комментарии относятся к паре (владелец, песня) и разбиты по дням: чтение
// возвращает только комментарии указанного дня, по умолчанию сегодняшнего.
package comments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/magabrotheeeer/jam/internal/lib/day"
	"github.com/magabrotheeeer/jam/internal/lib/metrics"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// Repository описывает хранилище комментариев.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	AddComment(ctx context.Context, c models.Comment) (string, error)
	ListComments(ctx context.Context, ownerUID, songID, day string) ([]models.Comment, error)
}

// Service реализует чтение и добавление комментариев.
type Service struct {
	repo  Repository
	clock day.Clock
	log   *slog.Logger
}

// New создает Service.
func New(repo Repository, clock day.Clock, log *slog.Logger) *Service {
	return &Service{repo: repo, clock: clock, log: log}
}

// List возвращает комментарии к песне songID пользователя ownerUID за дату date
// (по умолчанию сегодня) в порядке добавления.
func (s *Service) List(ctx context.Context, ownerUID, songID, date string) ([]models.Comment, error) {
	const op = "comments.List"

	if date == "" {
		date = s.clock.Today()
	} else {
		parsed, err := day.Parse(date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
		}
		date = parsed
	}

	list, err := s.repo.ListComments(ctx, ownerUID, songID, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Add добавляет комментарий authorUID к песне songID пользователя ownerUID.
// Дата и время берутся с часов сервиса, имя автора из его профиля.
func (s *Service) Add(ctx context.Context, authorUID, ownerUID, songID, text string) (*models.Comment, error) {
	const op = "comments.Add"

	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return nil, fmt.Errorf("%s: %w: comment is empty", op, models.ErrValidation)
	case utf8.RuneCountInString(text) > models.MaxCommentLength:
		return nil, fmt.Errorf("%s: %w: comment is longer than %d characters", op, models.ErrValidation, models.MaxCommentLength)
	case strings.TrimSpace(songID) == "":
		return nil, fmt.Errorf("%s: %w: song id is required", op, models.ErrValidation)
	}

	author, err := s.repo.GetUser(ctx, authorUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if author.Username == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUsernameRequired)
	}

	now := s.clock.Now()
	c := models.Comment{
		OwnerUID:       ownerUID,
		SongID:         songID,
		Day:            now.Format(day.Layout),
		Text:           text,
		AuthorUID:      authorUID,
		AuthorUsername: author.Username,
		CreatedAt:      now,
	}
	if c.ID, err = s.repo.AddComment(ctx, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.CommentsCreated.Inc()
	s.log.Debug("comment added", sl.Op(op), sl.UserUID(authorUID), slog.String("owner_uid", ownerUID))
	return &c, nil
}
