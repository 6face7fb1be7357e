// Package username реализует обработчики выбора имени пользователя:
// резервирование имени и проверку его доступности.
package username

import (
	"context"
	"encoding/json"
	"errors"
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

// Request - выбранное имя.
type Request struct {
	Username string `json:"username" validate:"required,max=64"`
}

// Service - операции с именем пользователя.
type Service interface {
	ReserveUsername(ctx context.Context, userUID, raw string) (string, error)
	CheckUsername(ctx context.Context, raw string) (string, bool, error)
}

// Router определяет экран после выбора имени.
type Router interface {
	Decide(ctx context.Context, userUID string) (models.Decision, error)
}

// Handler резервирует имя за текущим пользователем.
type Handler struct {
	log      *slog.Logger
	service  Service
	router   Router
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service, router Router) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		router:   router,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выбор имени пользователя
// @Description Резервирует имя (без учёта регистра) за текущим пользователем и возвращает следующий экран.
// @Tags Username
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Имя"
// @Success 200 {object} response.Response "Имя сохранено"
// @Failure 409 {object} response.ErrorResponse "Имя занято или уже выбрано"
// @Failure 422 {object} response.ErrorResponse "Некорректное имя"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /username [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.username.reserve"

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

	name, err := h.service.ReserveUsername(r.Context(), uid, req.Username)
	if err != nil {
		status, msg := response.FromError(err)
		if errors.Is(err, models.ErrUsernameTaken) {
			log.Info("username taken", slog.String("username", req.Username))
		} else if status == http.StatusInternalServerError {
			log.Error("failed to reserve username", sl.Err(err))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	decision, err := h.router.Decide(r.Context(), uid)
	if err != nil {
		log.Error("failed to route user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("username reserved", slog.String("username", name))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"username": name,
		"decision": decision,
	}))
}

// CheckHandler сообщает, свободно ли имя.
type CheckHandler struct {
	log     *slog.Logger
	service Service
}

// NewCheck создает CheckHandler.
func NewCheck(log *slog.Logger, service Service) *CheckHandler {
	return &CheckHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Проверка имени
// @Description Проверяет, свободно ли имя. Итоговое решение принимается только при резервировании.
// @Tags Username
// @Produce  json
// @Security BearerAuth
// @Param username query string true "Имя"
// @Success 200 {object} response.Response "Результат"
// @Failure 422 {object} response.ErrorResponse "Некорректное имя"
// @Router /username/check [get]
func (h *CheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.username.check"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	name, available, err := h.service.CheckUsername(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		status, msg := response.FromError(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to check username", sl.Err(err))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"username":  name,
		"available": available,
	}))
}
