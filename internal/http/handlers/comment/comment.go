// Package comment реализует обработчики ленты комментариев к песне дня.
//
// Область ленты задаётся владельцем песни и её идентификатором. По умолчанию
// отдаются комментарии за сегодня, параметр date открывает другие дни.
package comment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/jam/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jam/internal/http/response"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// Request - текст нового комментария.
type Request struct {
	Text string `json:"text" validate:"required"`
}

// Service - операции с комментариями.
type Service interface {
	List(ctx context.Context, ownerUID, songID, date string) ([]models.Comment, error)
	Add(ctx context.Context, authorUID, ownerUID, songID, text string) (*models.Comment, error)
}

// Handler обслуживает ленту комментариев.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// List godoc
// @Summary Комментарии к песне дня
// @Description Комментарии за один день в порядке добавления. Без параметра date берётся сегодняшний день.
// @Tags Comments
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID владельца песни"
// @Param songID path string true "Идентификатор песни"
// @Param date query string false "Дата 2006-01-02"
// @Success 200 {object} response.Response{data=[]models.Comment} "Комментарии"
// @Failure 422 {object} response.ErrorResponse "Некорректная дата"
// @Router /users/{id}/songs/{songID}/comments [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	comments, err := h.service.List(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "songID"), r.URL.Query().Get("date"))
	if err != nil {
		status, msg := response.FromError(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to list comments", sl.Err(err))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"comments": comments}))
}

// Add godoc
// @Summary Новый комментарий
// @Description Добавляет комментарий от текущего пользователя. Пустой текст и текст длиннее 500 символов отклоняются.
// @Tags Comments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID владельца песни"
// @Param songID path string true "Идентификатор песни"
// @Param request body Request true "Текст"
// @Success 201 {object} response.Response{data=models.Comment} "Комментарий"
// @Failure 403 {object} response.ErrorResponse "Имя пользователя не выбрано"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /users/{id}/songs/{songID}/comments [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.add"

	uid := middlewarectx.UserUIDFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.UserUID(uid),
	)

	var req Request
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

	c, err := h.service.Add(r.Context(), uid, chi.URLParam(r, "id"), chi.URLParam(r, "songID"), req.Text)
	if err != nil {
		status, msg := response.FromError(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to add comment", sl.Err(err))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("comment added", slog.String("comment_id", c.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(c))
}
