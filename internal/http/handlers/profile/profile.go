// Package profile реализует обработчики профиля: свой профиль, его изменение
// и публичный профиль другого пользователя.
package profile

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

// Service - операции с профилем.
type Service interface {
	Me(ctx context.Context, userUID string) (*models.User, error)
	Public(ctx context.Context, viewerUID, userUID string) (*models.PublicProfile, error)
	Update(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error)
}

// Handler обслуживает профили. Методы соответствуют маршрутам.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// UpdateRequest - изменяемые поля профиля. Отсутствующие поля не меняются.
type UpdateRequest struct {
	Bio            *string `json:"bio" validate:"omitempty,max=160"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,url"`
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.UserUID(middlewarectx.UserUIDFrom(r.Context())),
	)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, msg := response.FromError(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, response.Error(msg))
}

// Me godoc
// @Summary Свой профиль
// @Tags Profile
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.User} "Профиль"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profile.me")

	u, err := h.service.Me(r.Context(), middlewarectx.UserUIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(u))
}

// Update godoc
// @Summary Изменение профиля
// @Description Меняет описание (до 160 символов) и/или ссылку на картинку профиля.
// @Tags Profile
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body UpdateRequest true "Поля профиля"
// @Success 200 {object} response.Response{data=models.User} "Профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /users/me [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profile.update")

	var req UpdateRequest
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

	u, err := h.service.Update(r.Context(), middlewarectx.UserUIDFrom(r.Context()), models.ProfileUpdate{
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	log.Info("profile updated")
	render.JSON(w, r, response.StatusOKWithData(u))
}

// Get godoc
// @Summary Профиль пользователя
// @Description Имя, описание, картинка, песня дня, число подписчиков и подписок.
// @Tags Profile
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Success 200 {object} response.Response{data=models.PublicProfile} "Профиль"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profile.get")

	p, err := h.service.Public(r.Context(), middlewarectx.UserUIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(p))
}
