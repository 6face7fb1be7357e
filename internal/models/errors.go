package models

import "errors"

var (
	// ErrNotFound - запись отсутствует (документ пользователя, песня дня, маркер).
	ErrNotFound = errors.New("not found")
	// ErrValidation - ошибка валидации входных данных.
	ErrValidation = errors.New("validation error")

	ErrUsernameTaken      = errors.New("username is already taken")
	ErrUsernameAlreadySet = errors.New("username is already set")
	ErrUsernameRequired   = errors.New("username is required")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrSelfFollow = errors.New("cannot follow yourself")
)
