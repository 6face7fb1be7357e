// Package storage реализует хранилище Jam на PostgreSQL: пользователей,
// песни дня, подписки на пользователей и комментарии.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/jam/internal/models"
)

// Имена ограничений, по которым различаются нарушения уникальности.
const (
	constraintEmail         = "users_email_lower_idx"
	constraintUsername      = "users_username_lower_idx"
	constraintGoogleSubject = "users_google_subject_idx"
)

// Storage инкапсулирует соединение с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New открывает подключение к PostgreSQL и проверяет его.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{DB: db}, nil
}

// Ping проверяет доступность базы данных.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// mapError переводит ошибки драйвера в доменные.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case constraintEmail, constraintGoogleSubject:
			return models.ErrEmailTaken
		case constraintUsername:
			return models.ErrUsernameTaken
		}
	case pgerrcode.InvalidTextRepresentation, pgerrcode.ForeignKeyViolation:
		return models.ErrNotFound
	case pgerrcode.CheckViolation:
		return fmt.Errorf("%w: %s", models.ErrValidation, pgErr.ConstraintName)
	}
	return err
}
