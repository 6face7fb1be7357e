// Package profile содержит бизнес-логику профиля пользователя: резервирование
// имени, публичный профиль, редактирование и тему оформления.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/magabrotheeeer/jam/internal/cache"
	"github.com/magabrotheeeer/jam/internal/lib/day"
	"github.com/magabrotheeeer/jam/internal/lib/metrics"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// MaxBioLength - максимальная длина описания профиля в символах.
const MaxBioLength = 160

const userCacheTTL = 5 * time.Minute

// Repository описывает хранилище, нужное сервису профиля.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ReserveUsername(ctx context.Context, userUID, username string) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error)
	SetTheme(ctx context.Context, userUID string, theme models.Theme) error
	GetSongOfTheDay(ctx context.Context, userUID, day string) (*models.SongOfTheDay, error)
	CountFollows(ctx context.Context, userUID string) (followers, following int, err error)
	IsFollowing(ctx context.Context, followerUID, followeeUID string) (bool, error)
}

// Cache - кэш записей пользователей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// SessionToucher отмечает вход пользователя сегодня.
type SessionToucher interface {
	Touch(ctx context.Context, userUID string) error
}

// Service реализует операции профиля.
type Service struct {
	repo    Repository
	cache   Cache
	session SessionToucher
	clock   day.Clock
	log     *slog.Logger
}

// New создает Service.
func New(repo Repository, c Cache, session SessionToucher, clock day.Clock, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: c, session: session, clock: clock, log: log}
}

// ReserveUsername нормализует имя и назначает его пользователю одной условной записью.
// Возвращает итоговое имя. Занятое имя даёт models.ErrUsernameTaken, повторная
// попытка сменить уже выбранное имя даёт models.ErrUsernameAlreadySet.
func (s *Service) ReserveUsername(ctx context.Context, userUID, raw string) (string, error) {
	const op = "profile.ReserveUsername"
	log := s.log.With(sl.Op(op), sl.UserUID(userUID))

	name, err := NormalizeUsername(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.ReserveUsername(ctx, userUID, name); err != nil {
		if errors.Is(err, models.ErrUsernameTaken) {
			metrics.UsernameConflicts.Inc()
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	log.Info("username reserved", slog.String("username", name))

	s.invalidate(ctx, userUID)
	if err := s.session.Touch(ctx, userUID); err != nil {
		log.Error("failed to record login date", sl.Err(err))
	}
	return name, nil
}

// CheckUsername сообщает, свободно ли имя. Результат носит справочный характер:
// резервирование проверяет уникальность заново.
func (s *Service) CheckUsername(ctx context.Context, raw string) (string, bool, error) {
	const op = "profile.CheckUsername"

	name, err := NormalizeUsername(raw)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	exists, err := s.repo.UsernameExists(ctx, name)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return name, !exists, nil
}

// Me возвращает учётную запись пользователя.
func (s *Service) Me(ctx context.Context, userUID string) (*models.User, error) {
	const op = "profile.Me"

	u, err := s.user(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Public собирает профиль userUID, как его видит viewerUID.
func (s *Service) Public(ctx context.Context, viewerUID, userUID string) (*models.PublicProfile, error) {
	const op = "profile.Public"

	u, err := s.user(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := &models.PublicProfile{
		UUID:           u.UUID,
		Username:       u.Username,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
	}

	song, err := s.repo.GetSongOfTheDay(ctx, userUID, s.clock.Today())
	switch {
	case err == nil:
		p.SongOfTheDay = song
		p.ArtistNames = song.ArtistNames()
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if p.Followers, p.Following, err = s.repo.CountFollows(ctx, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if viewerUID != "" && viewerUID != userUID {
		if p.IsFollowing, err = s.repo.IsFollowing(ctx, viewerUID, userUID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return p, nil
}

// Update меняет описание и/или картинку профиля.
func (s *Service) Update(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "profile.Update"

	if upd.Bio != nil && utf8.RuneCountInString(*upd.Bio) > MaxBioLength {
		return nil, fmt.Errorf("%s: %w: bio is longer than %d characters", op, models.ErrValidation, MaxBioLength)
	}

	u, err := s.repo.UpdateProfile(ctx, userUID, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, userUID)
	return u, nil
}

// Theme возвращает тему пользователя.
func (s *Service) Theme(ctx context.Context, userUID string) (models.Theme, error) {
	const op = "profile.Theme"

	u, err := s.user(ctx, userUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if u.Theme.IsLight() {
		return models.ThemeLight, nil
	}
	return models.ThemeDark, nil
}

// SetTheme сохраняет тему пользователя.
func (s *Service) SetTheme(ctx context.Context, userUID string, theme models.Theme) (models.Theme, error) {
	const op = "profile.SetTheme"

	if _, err := models.ParseTheme(string(theme)); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SetTheme(ctx, userUID, theme); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, userUID)
	return theme, nil
}

// ToggleTheme переключает тему пользователя и возвращает новую.
func (s *Service) ToggleTheme(ctx context.Context, userUID string) (models.Theme, error) {
	const op = "profile.ToggleTheme"

	current, err := s.Theme(ctx, userUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	next, err := s.SetTheme(ctx, userUID, current.Toggle())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return next, nil
}

func (s *Service) user(ctx context.Context, userUID string) (*models.User, error) {
	key := cache.UserKey(userUID)

	var cached models.User
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("user cache read failed", sl.UserUID(userUID), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	u, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, u, userCacheTTL); err != nil {
		s.log.Warn("user cache write failed", sl.UserUID(userUID), sl.Err(err))
	}
	return u, nil
}

func (s *Service) invalidate(ctx context.Context, userUID string) {
	if err := s.cache.Invalidate(ctx, cache.UserKey(userUID)); err != nil {
		s.log.Warn("user cache invalidation failed", sl.UserUID(userUID), sl.Err(err))
	}
}
