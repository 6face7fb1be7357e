// Package follow управляет подписками пользователей друг на друга.
package follow

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/jam/internal/models"
)

// Repository описывает хранилище подписок.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	Follow(ctx context.Context, followerUID, followeeUID string) error
	Unfollow(ctx context.Context, followerUID, followeeUID string) error
	ListFollowing(ctx context.Context, userUID string) ([]models.UserSummary, error)
}

// Service реализует подписки.
type Service struct {
	repo Repository
}

// New создает Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Follow подписывает followerUID на followeeUID. Операция идемпотентна.
func (s *Service) Follow(ctx context.Context, followerUID, followeeUID string) error {
	const op = "follow.Follow"

	if followerUID == followeeUID {
		return fmt.Errorf("%s: %w", op, models.ErrSelfFollow)
	}
	if _, err := s.repo.GetUser(ctx, followeeUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.Follow(ctx, followerUID, followeeUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Unfollow отменяет подписку. Отсутствующая подписка не ошибка.
func (s *Service) Unfollow(ctx context.Context, followerUID, followeeUID string) error {
	const op = "follow.Unfollow"

	if err := s.repo.Unfollow(ctx, followerUID, followeeUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Following возвращает пользователей, на которых подписан userUID.
func (s *Service) Following(ctx context.Context, userUID string) ([]models.UserSummary, error) {
	const op = "follow.Following"

	if _, err := s.repo.GetUser(ctx, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	list, err := s.repo.ListFollowing(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
