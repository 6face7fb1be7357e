// Package logout реализует HTTP-обработчик выхода: текущий токен отзывается.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jam/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jam/internal/http/response"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
)

// Service отзывает токен доступа.
type Service interface {
	Logout(ctx context.Context, token string) error
}

// Handler обрабатывает выход из аккаунта.
type Handler struct {
	log        *slog.Logger
	authClient Service
}

// New создает Handler.
func New(log *slog.Logger, authClient Service) *Handler {
	return &Handler{log: log, authClient: authClient}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Отзывает текущий токен доступа.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Токен отозван"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.authClient.Logout(r.Context(), middlewarectx.TokenFrom(r.Context())); err != nil {
		status, msg := response.FromError(err)
		log.Error("logout failed", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("user logged out", sl.UserUID(middlewarectx.UserUIDFrom(r.Context())))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"logged_out": true}))
}
