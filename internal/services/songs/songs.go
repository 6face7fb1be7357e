// Package songs управляет выбором песни дня и домашней лентой.
package songs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/jam/internal/lib/day"
	"github.com/magabrotheeeer/jam/internal/lib/metrics"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// Repository описывает хранилище песен дня.
type Repository interface {
	UpsertSongOfTheDay(ctx context.Context, song models.SongOfTheDay) error
	GetSongOfTheDay(ctx context.Context, userUID, day string) (*models.SongOfTheDay, error)
	ListFeed(ctx context.Context, userUID, day string) ([]models.FeedItem, error)
}

// SelectionMarker запоминает выбор песни для Session Gate.
type SelectionMarker interface {
	MarkSongSelected(ctx context.Context, userUID, songID string) error
}

// Service реализует выбор песни дня.
type Service struct {
	repo   Repository
	marker SelectionMarker
	clock  day.Clock
	log    *slog.Logger
}

// New создает Service.
func New(repo Repository, marker SelectionMarker, clock day.Clock, log *slog.Logger) *Service {
	return &Service{repo: repo, marker: marker, clock: clock, log: log}
}

// SelectToday сохраняет песню пользователя на сегодня и обновляет маркер сессии.
func (s *Service) SelectToday(ctx context.Context, userUID string, sel models.SongSelection) (*models.SongOfTheDay, error) {
	const op = "songs.SelectToday"

	now := s.clock.Now()
	song := models.SongOfTheDay{
		UserUID:    userUID,
		Day:        now.Format(day.Layout),
		SongID:     strings.TrimSpace(sel.SongID),
		Title:      strings.TrimSpace(sel.Title),
		Artists:    sel.Artists,
		CoverURL:   sel.CoverURL,
		SelectedAt: now,
	}
	if song.SongID == "" || song.Title == "" {
		return nil, fmt.Errorf("%s: %w: song id and title are required", op, models.ErrValidation)
	}

	if err := s.repo.UpsertSongOfTheDay(ctx, song); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.SongsSelected.Inc()

	if err := s.marker.MarkSongSelected(ctx, userUID, song.SongID); err != nil {
		s.log.Error("failed to set selected song marker", sl.Op(op), sl.UserUID(userUID), sl.Err(err))
	}
	return &song, nil
}

// Today возвращает выбранную сегодня песню или models.ErrNotFound.
func (s *Service) Today(ctx context.Context, userUID string) (*models.SongOfTheDay, error) {
	const op = "songs.Today"

	song, err := s.repo.GetSongOfTheDay(ctx, userUID, s.clock.Today())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return song, nil
}

// Feed возвращает сегодняшние песни пользователя и тех, на кого он подписан.
func (s *Service) Feed(ctx context.Context, userUID string) ([]models.FeedItem, error) {
	const op = "songs.Feed"

	items, err := s.repo.ListFeed(ctx, userUID, s.clock.Today())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}
