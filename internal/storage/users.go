package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/jam/internal/models"
)

const userColumns = `uid, email, COALESCE(password_hash, ''), COALESCE(google_subject, ''),
	email_verified, COALESCE(username, ''), bio, profile_picture, theme, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.UUID, &u.Email, &u.PasswordHash, &u.GoogleSubject,
		&u.EmailVerified, &u.Username, &u.Bio, &u.ProfilePicture, &u.Theme, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его UID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO users (email, password_hash, google_subject, email_verified)
			  VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
			  RETURNING uid`
	var uid string
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.GoogleSubject, user.EmailVerified).Scan(&uid); err != nil {
		return "", fmt.Errorf("%s: %w", op, mapError(err))
	}
	return uid, nil
}

// GetUser возвращает пользователя по UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	return s.getUserBy(ctx, "storage.GetUser", `uid = $1`, userUID)
}

// GetUserByEmail возвращает пользователя по почте без учёта регистра.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUserBy(ctx, "storage.GetUserByEmail", `LOWER(email) = LOWER($1)`, email)
}

// GetUserByGoogleSubject возвращает пользователя, привязанного к аккаунту Google.
func (s *Storage) GetUserByGoogleSubject(ctx context.Context, subject string) (*models.User, error) {
	return s.getUserBy(ctx, "storage.GetUserByGoogleSubject", `google_subject = $1`, subject)
}

func (s *Storage) getUserBy(ctx context.Context, op, where string, arg any) (*models.User, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// LinkGoogleAccount привязывает аккаунт Google к существующему пользователю.
// Почта, подтверждённая Google, считается подтверждённой.
func (s *Storage) LinkGoogleAccount(ctx context.Context, userUID, subject string) error {
	const op = "storage.LinkGoogleAccount"
	if err := checkCtx(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE users SET google_subject = $1, email_verified = TRUE WHERE uid = $2`
	return s.execOne(ctx, op, query, subject, userUID)
}

// SetEmailVerified отмечает почту пользователя подтверждённой.
func (s *Storage) SetEmailVerified(ctx context.Context, userUID string) error {
	const op = "storage.SetEmailVerified"
	if err := checkCtx(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return s.execOne(ctx, op, `UPDATE users SET email_verified = TRUE WHERE uid = $1`, userUID)
}

// ReserveUsername атомарно назначает имя пользователю, у которого его ещё нет.
// Имя должно быть уже нормализовано. Уникальность обеспечивает индекс по LOWER(username),
// поэтому из конкурирующих резервирований одного имени успешно только одно.
func (s *Storage) ReserveUsername(ctx context.Context, userUID, username string) error {
	const op = "storage.ReserveUsername"
	if err := checkCtx(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET username = $1 WHERE uid = $2 AND username IS NULL`, username, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 1 {
		return nil
	}

	var current sql.NullString
	err = s.DB.QueryRowContext(ctx, `SELECT username FROM users WHERE uid = $1`, userUID).Scan(&current)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return fmt.Errorf("%s: %w", op, models.ErrUsernameAlreadySet)
}

// UsernameExists проверяет, занято ли имя.
func (s *Storage) UsernameExists(ctx context.Context, username string) (bool, error) {
	const op = "storage.UsernameExists"
	if err := checkCtx(ctx); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdateProfile меняет заданные поля профиля и возвращает обновлённого пользователя.
func (s *Storage) UpdateProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "storage.UpdateProfile"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE users
			  SET bio = COALESCE($1, bio),
			      profile_picture = COALESCE($2, profile_picture)
			  WHERE uid = $3
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, upd.Bio, upd.ProfilePicture, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// SetTheme сохраняет тему оформления пользователя.
func (s *Storage) SetTheme(ctx context.Context, userUID string, theme models.Theme) error {
	const op = "storage.SetTheme"
	if err := checkCtx(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return s.execOne(ctx, op, `UPDATE users SET theme = $1 WHERE uid = $2`, string(theme), userUID)
}

// ListReminderRecipients возвращает подтверждённых пользователей с именем,
// у которых нет песни на день day.
func (s *Storage) ListReminderRecipients(ctx context.Context, day string) ([]models.ReminderRecipient, error) {
	const op = "storage.ListReminderRecipients"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT u.uid, u.email, u.username
			  FROM users u
			  WHERE u.email_verified AND u.username IS NOT NULL
			    AND NOT EXISTS (
			        SELECT 1 FROM songs_of_the_day s
			        WHERE s.user_uid = u.uid AND s.day = $1::date
			    )
			  ORDER BY u.created_at`
	rows, err := s.DB.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ReminderRecipient
	for rows.Next() {
		var r models.ReminderRecipient
		if err := rows.Scan(&r.UUID, &r.Email, &r.Username); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
