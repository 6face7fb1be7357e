// Package models содержит доменные структуры Jam: пользователя, песню дня,
// комментарии, подписки на пользователей и служебные сообщения очередей.
// Структуры используются в бизнес‑логике, хранилище и HTTP/gRPC слоях.
package models

import "time"

// User представляет учётную запись пользователя Jam.
type User struct {
	UUID           string    `json:"uid"`                  // Уникальный идентификатор пользователя
	Email          string    `json:"email"`                // Электронная почта (уникальная без учёта регистра)
	PasswordHash   string    `json:"-"`                    // Хэш пароля, пустой для аккаунтов Google
	GoogleSubject  string    `json:"-"`                    // Идентификатор аккаунта Google (sub)
	EmailVerified  bool      `json:"email_verified"`       // Подтверждена ли почта
	Username       string    `json:"username,omitempty"`   // Имя пользователя в нижнем регистре, пустое до выбора
	Bio            string    `json:"bio"`                  // Описание профиля
	ProfilePicture string    `json:"profile_picture"`      // Ссылка на изображение профиля
	Theme          Theme     `json:"theme"`                // Выбранная тема оформления
	CreatedAt      time.Time `json:"created_at,omitempty"` // Дата регистрации
}

// ProfileUpdate описывает частичное обновление профиля. Nil-поля не меняются.
type ProfileUpdate struct {
	Bio            *string
	ProfilePicture *string
}

// UserSummary - краткая карточка пользователя для списков.
type UserSummary struct {
	UUID           string `json:"uid"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// PublicProfile - профиль пользователя, видимый другим.
type PublicProfile struct {
	UUID           string        `json:"uid"`
	Username       string        `json:"username"`
	Bio            string        `json:"bio"`
	ProfilePicture string        `json:"profile_picture"`
	SongOfTheDay   *SongOfTheDay `json:"song_of_the_day,omitempty"`
	ArtistNames    string        `json:"artist_names,omitempty"`
	Followers      int           `json:"followers"`
	Following      int           `json:"following"`
	IsFollowing    bool          `json:"is_following"`
}

// ReminderRecipient - пользователь, который ещё не выбрал песню дня.
type ReminderRecipient struct {
	UUID     string
	Email    string
	Username string
}
