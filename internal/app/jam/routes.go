// Package jam собирает HTTP API Jam: маршруты, middleware и зависимости.
package jam

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/jam/internal/config"
	"github.com/magabrotheeeer/jam/internal/http/handlers/auth/google"
	"github.com/magabrotheeeer/jam/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/jam/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/jam/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/jam/internal/http/handlers/auth/verify"
	"github.com/magabrotheeeer/jam/internal/http/handlers/comment"
	"github.com/magabrotheeeer/jam/internal/http/handlers/feed"
	"github.com/magabrotheeeer/jam/internal/http/handlers/follow"
	"github.com/magabrotheeeer/jam/internal/http/handlers/health"
	"github.com/magabrotheeeer/jam/internal/http/handlers/profile"
	"github.com/magabrotheeeer/jam/internal/http/handlers/session"
	"github.com/magabrotheeeer/jam/internal/http/handlers/settings/theme"
	"github.com/magabrotheeeer/jam/internal/http/handlers/songoftheday"
	"github.com/magabrotheeeer/jam/internal/http/handlers/username"
	"github.com/magabrotheeeer/jam/internal/http/middlewarectx"
	commentservice "github.com/magabrotheeeer/jam/internal/services/comments"
	followservice "github.com/magabrotheeeer/jam/internal/services/follow"
	profileservice "github.com/magabrotheeeer/jam/internal/services/profile"
	sessionservice "github.com/magabrotheeeer/jam/internal/services/session"
	songservice "github.com/magabrotheeeer/jam/internal/services/songs"

	_ "github.com/magabrotheeeer/jam/docs"
)

// AuthClient - операции сервиса авторизации, нужные HTTP API.
type AuthClient interface {
	register.Service
	login.Service
	google.Service
	logout.Service
	verify.Service
	middlewarectx.Service
}

// Services - зависимости обработчиков.
type Services struct {
	Auth     AuthClient
	Gate     *sessionservice.Gate
	Profile  *profileservice.Service
	Follow   *followservice.Service
	Songs    *songservice.Service
	Comments *commentservice.Service
	Health   map[string]health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, limits config.Limits, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware,
	)

	// Лимит по IP для открытых маршрутов и по пользователю для остальных:
	// ключ пользователя появляется в контексте только после JWTMiddleware.
	ipLimit := middlewarectx.RateLimitMiddleware(logger, limits.RateLimitRPS, limits.RateLimitBurst)
	userLimit := middlewarectx.RateLimitMiddleware(logger, limits.RateLimitRPS, limits.RateLimitBurst)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.MinAppVersionMiddleware(logger, limits.MinAppVersion))

		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(ipLimit)
			r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, s.Auth, s.Gate).ServeHTTP)
			r.Post("/login/google", google.New(logger, s.Auth, s.Gate).ServeHTTP)
			r.Get("/verify-email", verify.New(logger, s.Auth).ServeHTTP)
		})

		// Авторизованные, почта может быть не подтверждена
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(userLimit)
			r.Post("/logout", logout.New(logger, s.Auth).ServeHTTP)
			r.Post("/verify-email/resend", verify.NewResend(logger, s.Auth).ServeHTTP)
			r.Get("/verify-email/status", verify.NewStatus(logger, s.Auth, s.Gate).ServeHTTP)
			r.Post("/session", session.New(logger, s.Gate).ServeHTTP)
		})

		// Авторизованные с подтверждённой почтой
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(userLimit)
			r.Use(middlewarectx.EmailVerifiedMiddleware(logger))

			r.Post("/username", username.New(logger, s.Profile, s.Gate).ServeHTTP)
			r.Get("/username/check", username.NewCheck(logger, s.Profile).ServeHTTP)

			songs := s.Songs
			r.Put("/songs/today", songoftheday.NewSelect(logger, songs).ServeHTTP)
			r.Get("/songs/today", songoftheday.NewToday(logger, songs).ServeHTTP)
			r.Get("/feed", feed.New(logger, songs).ServeHTTP)

			p := profile.New(logger, s.Profile)
			r.Get("/users/me", p.Me)
			r.Patch("/users/me", p.Update)
			r.Get("/users/{id}", p.Get)

			f := follow.New(logger, s.Follow)
			r.Post("/users/{id}/follow", f.Follow)
			r.Delete("/users/{id}/follow", f.Unfollow)
			r.Get("/users/{id}/following", f.Following)

			c := comment.New(logger, s.Comments)
			r.Get("/users/{id}/songs/{songID}/comments", c.List)
			r.Post("/users/{id}/songs/{songID}/comments", c.Add)

			t := theme.New(logger, s.Profile)
			r.Get("/settings/theme", t.Get)
			r.Put("/settings/theme", t.Set)
			r.Post("/settings/theme/toggle", t.Toggle)
		})
	})

	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
