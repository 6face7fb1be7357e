// Package middlewarectx содержит HTTP middleware Jam: проверку JWT,
// подтверждённой почты, версии клиента, ограничение частоты запросов и метрики.
//
// JWTMiddleware проверяет токен в заголовке Authorization через сервис
// авторизации и кладёт данные пользователя в контекст запроса.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jam/internal/http/response"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID - ключ для идентификатора пользователя в контексте
	UserUID Key = "user_uid"
	// Email - ключ для почты пользователя
	Email Key = "email"
	// EmailVerified - ключ для признака подтверждённой почты
	EmailVerified Key = "email_verified"
	// Token - ключ для исходного токена доступа
	Token Key = "token"
)

// Service описывает интерфейс сервиса для валидации JWT токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден, добавляет данные пользователя в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(authClient Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Info("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authClient.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				if errors.Is(err, models.ErrInvalidToken) {
					log.Info("invalid or expired token", sl.Err(err))
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Error("invalid or expired token"))
					return
				}
				log.Error("token validation failed", sl.Err(err))
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("auth service unavailable"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, user.UUID)
			ctx = context.WithValue(ctx, Email, user.Email)
			ctx = context.WithValue(ctx, EmailVerified, user.EmailVerified)
			ctx = context.WithValue(ctx, Token, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmailVerifiedMiddleware пропускает только пользователей с подтверждённой почтой.
// Должен стоять после JWTMiddleware.
func EmailVerifiedMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verified, _ := r.Context().Value(EmailVerified).(bool)
			if !verified {
				log.Info("email not verified", sl.UserUID(UserUIDFrom(r.Context())))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("email not verified"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserUIDFrom возвращает идентификатор пользователя из контекста или пустую строку.
func UserUIDFrom(ctx context.Context) string {
	uid, _ := ctx.Value(UserUID).(string)
	return uid
}

// TokenFrom возвращает токен доступа из контекста или пустую строку.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(Token).(string)
	return token
}

// WithUser кладёт пользователя в контекст так же, как JWTMiddleware.
func WithUser(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, UserUID, user.UUID)
	ctx = context.WithValue(ctx, Email, user.Email)
	return context.WithValue(ctx, EmailVerified, user.EmailVerified)
}
