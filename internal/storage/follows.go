package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/jam/internal/models"
)

// Follow подписывает follower на followee. Повторная подписка ничего не меняет.
func (s *Storage) Follow(ctx context.Context, followerUID, followeeUID string) error {
	const op = "storage.Follow"
	if err := checkCtx(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO follows (follower_uid, followee_uid) VALUES ($1, $2)
			  ON CONFLICT DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, followerUID, followeeUID); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// Unfollow удаляет подписку, если она есть.
func (s *Storage) Unfollow(ctx context.Context, followerUID, followeeUID string) error {
	const op = "storage.Unfollow"
	if err := checkCtx(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `DELETE FROM follows WHERE follower_uid = $1 AND followee_uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, followerUID, followeeUID); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// IsFollowing сообщает, подписан ли follower на followee.
func (s *Storage) IsFollowing(ctx context.Context, followerUID, followeeUID string) (bool, error) {
	const op = "storage.IsFollowing"
	if err := checkCtx(ctx); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_uid = $1 AND followee_uid = $2)`
	if err := s.DB.QueryRowContext(ctx, query, followerUID, followeeUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return exists, nil
}

// CountFollows возвращает число подписчиков и подписок пользователя.
func (s *Storage) CountFollows(ctx context.Context, userUID string) (followers, following int, err error) {
	const op = "storage.CountFollows"
	if err := checkCtx(ctx); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT
			      (SELECT COUNT(*) FROM follows WHERE followee_uid = $1),
			      (SELECT COUNT(*) FROM follows WHERE follower_uid = $1)`
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&followers, &following); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return followers, following, nil
}

// ListFollowing возвращает пользователей, на которых подписан userUID.
func (s *Storage) ListFollowing(ctx context.Context, userUID string) ([]models.UserSummary, error) {
	const op = "storage.ListFollowing"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT u.uid, COALESCE(u.username, ''), u.profile_picture
			  FROM follows f
			  JOIN users u ON u.uid = f.followee_uid
			  WHERE f.follower_uid = $1
			  ORDER BY f.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.UUID, &u.Username, &u.ProfilePicture); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
