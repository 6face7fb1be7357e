// Package theme реализует обработчики темы оформления пользователя.
package theme

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

// Request - явное значение темы.
type Request struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

// Service - операции с темой.
type Service interface {
	Theme(ctx context.Context, userUID string) (models.Theme, error)
	SetTheme(ctx context.Context, userUID string, theme models.Theme) (models.Theme, error)
	ToggleTheme(ctx context.Context, userUID string) (models.Theme, error)
}

// Handler обслуживает настройки темы.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op string, theme models.Theme, err error) {
	if err != nil {
		status, msg := response.FromError(err)
		if status == http.StatusInternalServerError {
			h.log.Error("theme request failed",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				sl.Err(err),
			)
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"theme":    theme,
		"is_light": theme.IsLight(),
	}))
}

// Get godoc
// @Summary Тема оформления
// @Tags Settings
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Тема"
// @Router /settings/theme [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Theme(r.Context(), middlewarectx.UserUIDFrom(r.Context()))
	h.respond(w, r, "handlers.theme.get", t, err)
}

// Set godoc
// @Summary Установить тему
// @Tags Settings
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Тема"
// @Success 200 {object} response.Response "Тема"
// @Failure 422 {object} response.ErrorResponse "Неизвестная тема"
// @Router /settings/theme [put]
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	t, err := h.service.SetTheme(r.Context(), middlewarectx.UserUIDFrom(r.Context()), models.Theme(req.Theme))
	h.respond(w, r, "handlers.theme.set", t, err)
}

// Toggle godoc
// @Summary Переключить тему
// @Tags Settings
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Новая тема"
// @Router /settings/theme/toggle [post]
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.ToggleTheme(r.Context(), middlewarectx.UserUIDFrom(r.Context()))
	h.respond(w, r, "handlers.theme.toggle", t, err)
}
