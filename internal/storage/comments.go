package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/jam/internal/models"
)

// AddComment сохраняет комментарий и возвращает его идентификатор.
func (s *Storage) AddComment(ctx context.Context, c models.Comment) (string, error) {
	const op = "storage.AddComment"
	if err := checkCtx(ctx); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO comments (owner_uid, song_id, day, text, author_uid, author_username, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var id string
	if err := s.DB.QueryRowContext(ctx, query,
		c.OwnerUID, c.SongID, c.Day, c.Text, c.AuthorUID, c.AuthorUsername, c.CreatedAt).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: %w", op, mapError(err))
	}
	return id, nil
}

// ListComments возвращает комментарии к песне songID пользователя ownerUID за день day
// в порядке создания.
func (s *Storage) ListComments(ctx context.Context, ownerUID, songID, day string) ([]models.Comment, error) {
	const op = "storage.ListComments"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, owner_uid, song_id, day, text, author_uid, author_username, created_at
			  FROM comments
			  WHERE owner_uid = $1 AND song_id = $2 AND day = $3
			  ORDER BY created_at ASC, id ASC`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID, songID, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.OwnerUID, &c.SongID, &c.Day, &c.Text,
			&c.AuthorUID, &c.AuthorUsername, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
