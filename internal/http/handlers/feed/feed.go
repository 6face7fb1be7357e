// Package feed реализует обработчик домашней ленты песен дня.
package feed

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

// Service возвращает ленту пользователя.
type Service interface {
	Feed(ctx context.Context, userUID string) ([]models.FeedItem, error)
}

// Handler обрабатывает запросы ленты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Лента
// @Description Песни дня текущего пользователя и тех, на кого он подписан, начиная с последних.
// @Tags Feed
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]models.FeedItem} "Лента"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /feed [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feed"

	uid := middlewarectx.UserUIDFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.UserUID(uid),
	)

	items, err := h.service.Feed(r.Context(), uid)
	if err != nil {
		status, msg := response.FromError(err)
		log.Error("failed to load feed", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}
	if items == nil {
		items = []models.FeedItem{}
	}

	log.Debug("feed loaded", slog.Int("count", len(items)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"items": items,
	}))
}
