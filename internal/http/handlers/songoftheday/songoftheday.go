// Package songoftheday реализует обработчики выбора и чтения песни дня.
package songoftheday

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/jam/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jam/internal/http/response"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// Service - операции с песней дня.
type Service interface {
	SelectToday(ctx context.Context, userUID string, sel models.SongSelection) (*models.SongOfTheDay, error)
	Today(ctx context.Context, userUID string) (*models.SongOfTheDay, error)
}

// SelectHandler сохраняет песню дня текущего пользователя.
type SelectHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewSelect создает SelectHandler.
func NewSelect(log *slog.Logger, service Service) *SelectHandler {
	return &SelectHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Выбор песни дня
// @Description Сохраняет песню на сегодня. Повторный выбор в тот же день заменяет предыдущий.
// @Tags Songs
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.SongSelection true "Песня"
// @Success 200 {object} response.Response{data=models.SongOfTheDay} "Песня сохранена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /songs/today [put]
func (h *SelectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.songoftheday.select"

	uid := middlewarectx.UserUIDFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.UserUID(uid),
	)

	var req models.SongSelection
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	song, err := h.service.SelectToday(r.Context(), uid, req)
	if err != nil {
		status, msg := response.FromError(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to select song", sl.Err(err))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("song of the day selected", slog.String("song_id", song.SongID))
	render.JSON(w, r, response.StatusOKWithData(song))
}

// TodayHandler возвращает песню дня текущего пользователя.
type TodayHandler struct {
	log     *slog.Logger
	service Service
}

// NewToday создает TodayHandler.
func NewToday(log *slog.Logger, service Service) *TodayHandler {
	return &TodayHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Песня дня
// @Tags Songs
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.SongOfTheDay} "Песня"
// @Failure 404 {object} response.ErrorResponse "Песня на сегодня не выбрана"
// @Router /songs/today [get]
func (h *TodayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.songoftheday.today"

	uid := middlewarectx.UserUIDFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.UserUID(uid),
	)

	song, err := h.service.Today(r.Context(), uid)
	if err != nil {
		status, msg := response.FromError(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to get song of the day", sl.Err(err))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(song))
}
