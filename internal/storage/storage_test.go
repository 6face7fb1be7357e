package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/jam/internal/models"
)

const testUID = "550e8400-e29b-41d4-a716-446655440000"

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return &Storage{DB: db}, mock
}

func userRow(uid, username string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"uid", "email", "password_hash", "google_subject",
		"email_verified", "username", "bio", "profile_picture", "theme", "created_at"}).
		AddRow(uid, "alice@example.com", "hash", "", true, username, "", "", "dark",
			time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
}

func TestMapError(t *testing.T) {
	other := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: models.ErrNotFound},
		{name: "username taken", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintUsername}, want: models.ErrUsernameTaken},
		{name: "email taken", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintEmail}, want: models.ErrEmailTaken},
		{name: "invalid uuid", err: &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, want: models.ErrNotFound},
		{name: "missing referenced user", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, want: models.ErrNotFound},
		{name: "check violation", err: &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "follows_check"}, want: models.ErrValidation},
		{name: "other", err: other, want: other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.err), tt.want)
		})
	}
}

func TestStorage_CreateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("alice@example.com", "hash", "", false).
			WillReturnRows(sqlmock.NewRows([]string{"uid"}).AddRow(testUID))

		uid, err := s.CreateUser(context.Background(), models.User{Email: "alice@example.com", PasswordHash: "hash"})
		require.NoError(t, err)
		assert.Equal(t, testUID, uid)
	})

	t.Run("duplicate email", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintEmail})

		_, err := s.CreateUser(context.Background(), models.User{Email: "Alice@example.com"})
		assert.ErrorIs(t, err, models.ErrEmailTaken)
	})

	t.Run("cancelled context", func(t *testing.T) {
		s, _ := newMockStorage(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.CreateUser(ctx, models.User{Email: "a@b.c"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStorage_GetUser(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery("SELECT uid, email").WithArgs(testUID).WillReturnRows(userRow(testUID, "alice"))

		u, err := s.GetUser(context.Background(), testUID)
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, models.ThemeDark, u.Theme)
		assert.True(t, u.EmailVerified)
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery("SELECT uid, email").WithArgs(testUID).
			WillReturnRows(sqlmock.NewRows([]string{"uid"}))

		_, err := s.GetUser(context.Background(), testUID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestStorage_ReserveUsername(t *testing.T) {
	const query = `UPDATE users SET username = \$1 WHERE uid = \$2 AND username IS NULL`

	t.Run("reserved", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectExec(query).WithArgs("alice", testUID).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.ReserveUsername(context.Background(), testUID, "alice"))
	})

	t.Run("taken by another user", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectExec(query).WithArgs("alice", testUID).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintUsername})

		assert.ErrorIs(t, s.ReserveUsername(context.Background(), testUID, "alice"), models.ErrUsernameTaken)
	})

	t.Run("already has a username", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectExec(query).WithArgs("alice", testUID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT username FROM users").WithArgs(testUID).
			WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("bob"))

		assert.ErrorIs(t, s.ReserveUsername(context.Background(), testUID, "alice"), models.ErrUsernameAlreadySet)
	})

	t.Run("no such user", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectExec(query).WithArgs("alice", testUID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT username FROM users").WithArgs(testUID).
			WillReturnRows(sqlmock.NewRows([]string{"username"}))

		assert.ErrorIs(t, s.ReserveUsername(context.Background(), testUID, "alice"), models.ErrNotFound)
	})
}

func TestStorage_SetTheme_NotFound(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectExec("UPDATE users SET theme").WithArgs("dark", testUID).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.SetTheme(context.Background(), testUID, models.ThemeDark), models.ErrNotFound)
}

func TestStorage_UpsertSongOfTheDay(t *testing.T) {
	selected := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		artists     []string
		wantArtists string
	}{
		{name: "with artists", artists: []string{"Daft Punk", "Pharrell"}, wantArtists: `["Daft Punk","Pharrell"]`},
		{name: "no artists", artists: nil, wantArtists: `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStorage(t)
			mock.ExpectExec("INSERT INTO songs_of_the_day").
				WithArgs(testUID, "2024-06-01", "spotify:1", "Get Lucky", tt.wantArtists, "", selected).
				WillReturnResult(sqlmock.NewResult(0, 1))

			err := s.UpsertSongOfTheDay(context.Background(), models.SongOfTheDay{
				UserUID: testUID, Day: "2024-06-01", SongID: "spotify:1", Title: "Get Lucky",
				Artists: tt.artists, SelectedAt: selected,
			})
			require.NoError(t, err)
		})
	}
}

func TestStorage_GetSongOfTheDay(t *testing.T) {
	cols := []string{"user_uid", "day", "song_id", "title", "artists", "cover_url", "selected_at"}

	t.Run("found", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery("FROM songs_of_the_day").WithArgs(testUID, "2024-06-01").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(testUID, "2024-06-01", "spotify:1", "Get Lucky", `["Daft Punk"]`, "https://img/1.png", time.Now()))

		song, err := s.GetSongOfTheDay(context.Background(), testUID, "2024-06-01")
		require.NoError(t, err)
		assert.Equal(t, []string{"Daft Punk"}, song.Artists)
		assert.Equal(t, "2024-06-01", song.Day)
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery("FROM songs_of_the_day").WithArgs(testUID, "2024-06-01").
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := s.GetSongOfTheDay(context.Background(), testUID, "2024-06-01")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestStorage_ListComments(t *testing.T) {
	s, mock := newMockStorage(t)
	first := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM comments").WithArgs(testUID, "spotify:1", "2024-06-01").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_uid", "song_id", "day", "text", "author_uid", "author_username", "created_at"}).
			AddRow("c1", testUID, "spotify:1", "2024-06-01", "first", "a1", "bob", first).
			AddRow("c2", testUID, "spotify:1", "2024-06-01", "second", "a2", "carol", first.Add(time.Minute)))

	comments, err := s.ListComments(context.Background(), testUID, "spotify:1", "2024-06-01")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "bob", comments[0].AuthorUsername)
	assert.Equal(t, "carol", comments[1].AuthorUsername)
}

func TestStorage_ListComments_Empty(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery("FROM comments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_uid", "song_id", "day", "text", "author_uid", "author_username", "created_at"}))

	comments, err := s.ListComments(context.Background(), testUID, "spotify:1", "2024-06-01")
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestStorage_CountFollows(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery("FROM follows").WithArgs(testUID).
		WillReturnRows(sqlmock.NewRows([]string{"followers", "following"}).AddRow(3, 5))

	followers, following, err := s.CountFollows(context.Background(), testUID)
	require.NoError(t, err)
	assert.Equal(t, 3, followers)
	assert.Equal(t, 5, following)
}
