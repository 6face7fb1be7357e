// Package google реализует HTTP-обработчик входа через аккаунт Google.
package google

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/jam/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/jam/internal/http/response"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// Request содержит ID-токен, полученный клиентом от Google.
type Request struct {
	IDToken string `json:"id_token" validate:"required"`
}

// Service описывает вход через Google в сервисе авторизации.
type Service interface {
	LoginGoogle(ctx context.Context, idToken string) (string, *models.User, error)
}

// Handler обрабатывает вход через Google.
type Handler struct {
	log        *slog.Logger
	authClient Service
	router     login.Router
	validate   *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, authClient Service, router login.Router) *Handler {
	return &Handler{
		log:        log,
		authClient: authClient,
		router:     router,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход через Google
// @Description Проверяет ID-токен Google, находит или создаёт пользователя и возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "ID-токен Google"
// @Success 200 {object} response.Response{data=login.Result} "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Недействительный токен"
// @Failure 403 {object} response.ErrorResponse "Почта Google не подтверждена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login/google [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.google"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
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

	token, user, err := h.authClient.LoginGoogle(r.Context(), req.IDToken)
	if err != nil {
		status, msg := response.FromError(err)
		log.Info("google login failed", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	login.Respond(w, r, log, h.router, token, user)
}
