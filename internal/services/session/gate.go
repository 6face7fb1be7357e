// Package session реализует Session Gate: при каждом входе решает, должен ли
// пользователь сначала выбрать песню дня или может сразу попасть в ленту.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/jam/internal/lib/day"
	"github.com/magabrotheeeer/jam/internal/lib/metrics"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// MarkerStore хранит маркеры сессии пользователя.
// Отсутствующий маркер возвращается как models.ErrNotFound.
type MarkerStore interface {
	GetMarker(ctx context.Context, userUID, name string) (string, error)
	SetMarker(ctx context.Context, userUID, name, value string) error
	DeleteMarker(ctx context.Context, userUID, name string) error
}

// Repository даёт доступ к пользователю и его песне дня.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetSongOfTheDay(ctx context.Context, userUID, day string) (*models.SongOfTheDay, error)
}

// Gate принимает решение о маршруте после входа.
type Gate struct {
	markers MarkerStore
	repo    Repository
	clock   day.Clock
	log     *slog.Logger
}

// NewGate создает Gate.
func NewGate(markers MarkerStore, repo Repository, clock day.Clock, log *slog.Logger) *Gate {
	return &Gate{markers: markers, repo: repo, clock: clock, log: log}
}

// Landing определяет первый экран для вошедшего пользователя: подтверждение
// почты, выбор имени или решение Decide.
func (g *Gate) Landing(ctx context.Context, userUID string) (models.Decision, error) {
	const op = "session.Landing"

	user, err := g.repo.GetUser(ctx, userUID)
	if err != nil {
		return models.Decision{}, fmt.Errorf("%s: %w", op, err)
	}

	switch {
	case !user.EmailVerified:
		return g.record(models.Decision{Route: models.RouteEmailVerification}), nil
	case user.Username == "":
		return g.record(models.Decision{Route: models.RouteUsername}), nil
	}
	return g.Decide(ctx, userUID)
}

// Decide решает, куда направить пользователя с выбранным именем.
//
// Первый вход за день (lastLoginDate отсутствует или не сегодня) всегда ведёт
// на выбор песни: дата входа обновляется, маркер выбранной песни сбрасывается.
// При повторном входе маркер сверяется с сохранённой песней на сегодня.
func (g *Gate) Decide(ctx context.Context, userUID string) (models.Decision, error) {
	const op = "session.Decide"
	log := g.log.With(sl.Op(op), sl.UserUID(userUID))

	today := g.clock.Today()

	last, err := g.markers.GetMarker(ctx, userUID, models.MarkerLastLoginDate)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return models.Decision{}, fmt.Errorf("%s: %w", op, err)
	}

	if err != nil || last != today {
		if err := g.markers.SetMarker(ctx, userUID, models.MarkerLastLoginDate, today); err != nil {
			return models.Decision{}, fmt.Errorf("%s: %w", op, err)
		}
		if err := g.markers.DeleteMarker(ctx, userUID, models.MarkerSelectedSong); err != nil {
			return models.Decision{}, fmt.Errorf("%s: %w", op, err)
		}
		log.Debug("first login of the day", slog.String("previous", last), slog.String("today", today))
		return g.record(models.Decision{Route: models.RouteSongSelection, Day: today, NewDay: true}), nil
	}

	song, err := g.repo.GetSongOfTheDay(ctx, userUID, today)
	if errors.Is(err, models.ErrNotFound) {
		if err := g.markers.DeleteMarker(ctx, userUID, models.MarkerSelectedSong); err != nil {
			return models.Decision{}, fmt.Errorf("%s: %w", op, err)
		}
		return g.record(models.Decision{Route: models.RouteSongSelection, Day: today}), nil
	}
	if err != nil {
		return models.Decision{}, fmt.Errorf("%s: %w", op, err)
	}

	marker, err := g.markers.GetMarker(ctx, userUID, models.MarkerSelectedSong)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return models.Decision{}, fmt.Errorf("%s: %w", op, err)
	}
	if marker != song.SongID {
		if err := g.markers.SetMarker(ctx, userUID, models.MarkerSelectedSong, song.SongID); err != nil {
			return models.Decision{}, fmt.Errorf("%s: %w", op, err)
		}
		log.Debug("selected song marker refreshed", slog.String("song_id", song.SongID))
	}
	return g.record(models.Decision{Route: models.RouteHome, Day: today}), nil
}

// MarkSongSelected запоминает выбранную сегодня песню.
func (g *Gate) MarkSongSelected(ctx context.Context, userUID, songID string) error {
	const op = "session.MarkSongSelected"

	if err := g.markers.SetMarker(ctx, userUID, models.MarkerSelectedSong, songID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Touch записывает сегодняшнюю дату как дату последнего входа.
func (g *Gate) Touch(ctx context.Context, userUID string) error {
	const op = "session.Touch"

	if err := g.markers.SetMarker(ctx, userUID, models.MarkerLastLoginDate, g.clock.Today()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (g *Gate) record(d models.Decision) models.Decision {
	metrics.GateDecisions.WithLabelValues(string(d.Route)).Inc()
	return d
}
