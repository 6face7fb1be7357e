// Package session реализует HTTP-обработчик Session Gate: клиент вызывает его
// при запуске и после входа, чтобы узнать, какой экран показать.
package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jam/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jam/internal/http/response"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// Gate определяет экран для пользователя.
type Gate interface {
	Landing(ctx context.Context, userUID string) (models.Decision, error)
}

// Handler возвращает решение Session Gate.
type Handler struct {
	log  *slog.Logger
	gate Gate
}

// New создает Handler.
func New(log *slog.Logger, gate Gate) *Handler {
	return &Handler{log: log, gate: gate}
}

// ServeHTTP godoc
// @Summary Session Gate
// @Description Возвращает экран, на который нужно перейти: подтверждение почты, выбор имени, выбор песни дня или главная.
// @Tags Session
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.Decision} "Решение"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /session [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session"

	uid := middlewarectx.UserUIDFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.UserUID(uid),
	)

	decision, err := h.gate.Landing(r.Context(), uid)
	if err != nil {
		status, msg := response.FromError(err)
		log.Error("session gate failed", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Debug("session routed", slog.String("route", string(decision.Route)))
	render.JSON(w, r, response.StatusOKWithData(decision))
}
