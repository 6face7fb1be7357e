package models

import (
	"strings"
	"time"
)

// UnknownArtist подставляется вместо пустого имени исполнителя.
const UnknownArtist = "Unknown Artist"

// SongOfTheDay - денормализованный снимок песни, выбранной пользователем на конкретный день.
// Это не каталог песен: название, исполнители и обложка копируются при выборе.
type SongOfTheDay struct {
	UserUID    string    `json:"user_uid"`
	Day        string    `json:"date"` // Дата в формате 2006-01-02
	SongID     string    `json:"song_id"`
	Title      string    `json:"title"`
	Artists    []string  `json:"artists"`
	CoverURL   string    `json:"cover_url"`
	SelectedAt time.Time `json:"selected_at"`
}

// SongSelection используется для приёма выбора песни из JSON-запроса.
type SongSelection struct {
	SongID   string   `json:"song_id" validate:"required,max=128"`
	Title    string   `json:"title" validate:"required,max=256"`
	Artists  []string `json:"artists" validate:"max=32"`
	CoverURL string   `json:"cover_url" validate:"omitempty,url"`
}

// ArtistNames объединяет имена исполнителей через запятую.
// Пустые имена и отсутствующая песня заменяются на UnknownArtist.
func (s *SongOfTheDay) ArtistNames() string {
	if s == nil || len(s.Artists) == 0 {
		return UnknownArtist
	}
	names := make([]string, 0, len(s.Artists))
	for _, a := range s.Artists {
		if strings.TrimSpace(a) == "" {
			a = UnknownArtist
		}
		names = append(names, a)
	}
	return strings.Join(names, ", ")
}

// FeedItem - элемент домашней ленты: песня дня вместе с автором.
type FeedItem struct {
	Username       string        `json:"username"`
	ProfilePicture string        `json:"profile_picture"`
	Song           *SongOfTheDay `json:"song"`
}
