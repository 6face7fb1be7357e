// Package auth содержит логику регистрации, входа (по паролю и через Google),
// проверки и отзыва токенов, а также подтверждения почты.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/jam/internal/cache"
	"github.com/magabrotheeeer/jam/internal/lib/google"
	"github.com/magabrotheeeer/jam/internal/lib/jwt"
	"github.com/magabrotheeeer/jam/internal/lib/metrics"
	"github.com/magabrotheeeer/jam/internal/lib/password"
	"github.com/magabrotheeeer/jam/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByGoogleSubject(ctx context.Context, subject string) (*models.User, error)
	LinkGoogleAccount(ctx context.Context, userUID, subject string) error
	SetEmailVerified(ctx context.Context, userUID string) error
}

// TokenStore хранит токены подтверждения почты и отозванные токены доступа.
type TokenStore interface {
	SaveVerificationToken(ctx context.Context, token, userUID string, ttl time.Duration) error
	ConsumeVerificationToken(ctx context.Context, token string) (string, error)
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	Invalidate(ctx context.Context, key string) error
}

// IdentityVerifier проверяет ID-токен внешнего провайдера.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*google.Identity, error)
}

// Publisher публикует сообщения в очередь писем.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Options - параметры писем подтверждения.
type Options struct {
	VerificationTTL  time.Duration
	VerificationLink string
}

// Service отвечает за учётные записи и токены.
type Service struct {
	users     UserRepository
	tokens    TokenStore
	google    IdentityVerifier
	publisher Publisher
	jwtMaker  jwt.Maker
	opts      Options
	log       *slog.Logger
}

// New создает Service.
func New(users UserRepository, tokens TokenStore, verifier IdentityVerifier, publisher Publisher,
	jwtMaker jwt.Maker, opts Options, log *slog.Logger) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		google:    verifier,
		publisher: publisher,
		jwtMaker:  jwtMaker,
		opts:      opts,
		log:       log,
	}
}

// Register создает пользователя с неподтверждённой почтой и отправляет письмо
// со ссылкой подтверждения. Возвращает UID.
func (s *Service) Register(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "auth.Register"

	email = normalizeEmail(email)
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		if errors.Is(err, password.ErrTooShort) {
			return "", fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	uid, err := s.users.CreateUser(ctx, models.User{Email: email, PasswordHash: hashed})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sendVerification(ctx, uid, email); err != nil {
		s.log.Error("failed to send verification mail", sl.Op(op), sl.UserUID(uid), sl.Err(err))
	}
	return uid, nil
}

// Login проверяет пароль и выдаёт токен доступа.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, models.ErrNotFound) {
		return "", nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(user.UUID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// LoginGoogle проверяет ID-токен Google, находит или создаёт пользователя и
// выдаёт токен доступа. Существующая учётная запись с той же почтой
// привязывается к аккаунту Google.
func (s *Service) LoginGoogle(ctx context.Context, idToken string) (string, *models.User, error) {
	const op = "auth.LoginGoogle"

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w: %w", op, models.ErrInvalidToken, err)
	}
	if !identity.EmailVerified {
		return "", nil, fmt.Errorf("%s: %w", op, models.ErrEmailNotVerified)
	}

	user, err := s.googleUser(ctx, identity)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.UUID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

func (s *Service) googleUser(ctx context.Context, identity *google.Identity) (*models.User, error) {
	user, err := s.users.GetUserByGoogleSubject(ctx, identity.Subject)
	if err == nil || !errors.Is(err, models.ErrNotFound) {
		return user, err
	}

	email := normalizeEmail(identity.Email)
	existing, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.LinkGoogleAccount(ctx, existing.UUID, identity.Subject); err != nil {
			return nil, err
		}
		if err := s.tokens.Invalidate(ctx, cache.UserKey(existing.UUID)); err != nil {
			s.log.Warn("user cache invalidation failed", sl.UserUID(existing.UUID), sl.Err(err))
		}
		s.log.Info("google account linked", sl.UserUID(existing.UUID))
		return s.users.GetUser(ctx, existing.UUID)
	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}

	uid, err := s.users.CreateUser(ctx, models.User{
		Email:         email,
		GoogleSubject: identity.Subject,
		EmailVerified: true,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user created from google account", sl.UserUID(uid))
	return s.users.GetUser(ctx, uid)
}

// ValidateToken проверяет токен доступа и возвращает его владельца.
// Отозванные токены и токены удалённых пользователей недействительны.
func (s *Service) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrInvalidToken, err)
	}

	revoked, err := s.tokens.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidToken)
	}

	user, err := s.users.GetUser(ctx, claims.UserUID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidToken)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Logout отзывает токен до конца срока его действия.
func (s *Service) Logout(ctx context.Context, token string) error {
	const op = "auth.Logout"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, models.ErrInvalidToken, err)
	}
	if err := s.tokens.RevokeToken(ctx, claims.ID, claims.Remaining(time.Now())); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// VerifyEmail подтверждает почту по одноразовому токену из письма.
func (s *Service) VerifyEmail(ctx context.Context, token string) (string, error) {
	const op = "auth.VerifyEmail"

	uid, err := s.tokens.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.SetEmailVerified(ctx, uid); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.tokens.Invalidate(ctx, cache.UserKey(uid)); err != nil {
		s.log.Warn("user cache invalidation failed", sl.UserUID(uid), sl.Err(err))
	}
	s.log.Info("email verified", sl.UserUID(uid))
	return uid, nil
}

// ResendVerification повторно отправляет письмо подтверждения.
// Для уже подтверждённой почты ничего не делает.
func (s *Service) ResendVerification(ctx context.Context, userUID string) error {
	const op = "auth.ResendVerification"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.EmailVerified {
		return nil
	}
	if err := s.sendVerification(ctx, user.UUID, user.Email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// VerificationStatus сообщает, подтверждена ли почта пользователя.
func (s *Service) VerificationStatus(ctx context.Context, userUID string) (bool, error) {
	const op = "auth.VerificationStatus"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return user.EmailVerified, nil
}

func (s *Service) sendVerification(ctx context.Context, userUID, email string) error {
	token := uuid.NewString()
	if err := s.tokens.SaveVerificationToken(ctx, token, userUID, s.opts.VerificationTTL); err != nil {
		return err
	}

	msg := models.VerificationMessage{Email: email, Link: verificationLink(s.opts.VerificationLink, token)}
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingVerification, msg); err != nil {
		return err
	}
	metrics.MailsPublished.WithLabelValues(rabbitmq.RoutingVerification).Inc()
	return nil
}

func verificationLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
