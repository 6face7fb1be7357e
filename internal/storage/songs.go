package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/jam/internal/models"
)

const songColumns = `s.user_uid, to_char(s.day, 'YYYY-MM-DD'), s.song_id, s.title,
	s.artists::text, s.cover_url, s.selected_at`

func scanSong(row rowScanner, extra ...any) (*models.SongOfTheDay, error) {
	var (
		song    models.SongOfTheDay
		artists string
	)
	dest := append([]any{&song.UserUID, &song.Day, &song.SongID, &song.Title,
		&artists, &song.CoverURL, &song.SelectedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(artists), &song.Artists); err != nil {
		return nil, fmt.Errorf("decode artists: %w", err)
	}
	return &song, nil
}

// UpsertSongOfTheDay сохраняет выбор песни пользователя на день song.Day.
// Повторный выбор в тот же день заменяет предыдущий.
func (s *Storage) UpsertSongOfTheDay(ctx context.Context, song models.SongOfTheDay) error {
	const op = "storage.UpsertSongOfTheDay"
	if err := checkCtx(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	artists := song.Artists
	if artists == nil {
		artists = []string{}
	}
	encoded, err := json.Marshal(artists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO songs_of_the_day (user_uid, day, song_id, title, artists, cover_url, selected_at)
			  VALUES ($1, $2::date, $3, $4, $5::jsonb, $6, $7)
			  ON CONFLICT (user_uid, day) DO UPDATE
			  SET song_id = EXCLUDED.song_id,
			      title = EXCLUDED.title,
			      artists = EXCLUDED.artists,
			      cover_url = EXCLUDED.cover_url,
			      selected_at = EXCLUDED.selected_at`
	if _, err := s.DB.ExecContext(ctx, query, song.UserUID, song.Day, song.SongID, song.Title,
		string(encoded), song.CoverURL, song.SelectedAt); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// GetSongOfTheDay возвращает песню пользователя на день day.
func (s *Storage) GetSongOfTheDay(ctx context.Context, userUID, day string) (*models.SongOfTheDay, error) {
	const op = "storage.GetSongOfTheDay"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + songColumns + `
			  FROM songs_of_the_day s
			  WHERE s.user_uid = $1 AND s.day = $2::date`
	song, err := scanSong(s.DB.QueryRowContext(ctx, query, userUID, day))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return song, nil
}

// ListFeed возвращает песни дня пользователя userUID и тех, на кого он подписан,
// начиная с самых свежих.
func (s *Storage) ListFeed(ctx context.Context, userUID, day string) ([]models.FeedItem, error) {
	const op = "storage.ListFeed"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + songColumns + `, COALESCE(u.username, ''), u.profile_picture
			  FROM songs_of_the_day s
			  JOIN users u ON u.uid = s.user_uid
			  WHERE s.day = $2::date
			    AND (s.user_uid = $1
			         OR s.user_uid IN (SELECT followee_uid FROM follows WHERE follower_uid = $1))
			  ORDER BY s.selected_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	items := []models.FeedItem{}
	for rows.Next() {
		var item models.FeedItem
		song, err := scanSong(rows, &item.Username, &item.ProfilePicture)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.Song = song
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}
