package models

import "time"

// MaxCommentLength - максимальная длина комментария в символах.
const MaxCommentLength = 500

// Comment - комментарий к песне дня пользователя.
// Область комментария задаётся парой (OwnerUID, SongID), Day служит ключом разбиения по дням.
type Comment struct {
	ID             string    `json:"id"`
	OwnerUID       string    `json:"owner_uid"`
	SongID         string    `json:"song_id"`
	Day            string    `json:"date"`
	Text           string    `json:"text"`
	AuthorUID      string    `json:"author_uid"`
	AuthorUsername string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}
