// Package follow реализует обработчики подписок на пользователей.
package follow

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jam/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jam/internal/http/response"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// Service - операции подписки.
type Service interface {
	Follow(ctx context.Context, followerUID, followeeUID string) error
	Unfollow(ctx context.Context, followerUID, followeeUID string) error
	Following(ctx context.Context, userUID string) ([]models.UserSummary, error)
}

// Handler обслуживает подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := response.FromError(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
	}
	render.Status(r, status)
	render.JSON(w, r, response.Error(msg))
}

// Follow godoc
// @Summary Подписаться
// @Tags Follow
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Success 200 {object} response.Response "Подписка оформлена"
// @Failure 400 {object} response.ErrorResponse "Подписка на себя"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{id}/follow [post]
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.follow.follow"

	followee := chi.URLParam(r, "id")
	if err := h.service.Follow(r.Context(), middlewarectx.UserUIDFrom(r.Context()), followee); err != nil {
		h.fail(w, r, op, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"following": true}))
}

// Unfollow godoc
// @Summary Отписаться
// @Tags Follow
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Success 200 {object} response.Response "Подписка отменена"
// @Router /users/{id}/follow [delete]
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.follow.unfollow"

	followee := chi.URLParam(r, "id")
	if err := h.service.Unfollow(r.Context(), middlewarectx.UserUIDFrom(r.Context()), followee); err != nil {
		h.fail(w, r, op, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"following": false}))
}

// Following godoc
// @Summary Подписки пользователя
// @Tags Follow
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Success 200 {object} response.Response{data=[]models.UserSummary} "Подписки"
// @Router /users/{id}/following [get]
func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.follow.following"

	users, err := h.service.Following(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"users": users}))
}
