// Package login реализует HTTP-обработчик входа по почте и паролю.
//
// После успешной проверки пароля обработчик сразу определяет экран, на
// который клиент должен перейти: подтверждение почты, выбор имени или
// решение Session Gate.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/jam/internal/http/response"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// Request - структура входных данных для авторизации.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service описывает вызов входа в сервисе авторизации.
type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

// Router определяет экран после входа.
type Router interface {
	Landing(ctx context.Context, userUID string) (models.Decision, error)
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log        *slog.Logger
	authClient Service
	router     Router
	validate   *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, authClient Service, router Router) *Handler {
	return &Handler{
		log:        log,
		authClient: authClient,
		router:     router,
		validate:   validator.New(),
	}
}

// Result - данные успешного входа.
type Result struct {
	Token    string          `json:"token"`
	User     *models.User    `json:"user"`
	Decision models.Decision `json:"decision"`
}

// ServeHTTP godoc
// @Summary Вход по почте и паролю
// @Description Проверяет пароль, возвращает JWT и экран, на который нужно перейти.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response{data=Result} "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	token, user, err := h.authClient.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := response.FromError(err)
		log.Info("login failed", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	Respond(w, r, log, h.router, token, user)
}

// Respond завершает успешный вход: определяет экран через Session Gate
// и отправляет токен клиенту. Используется и при входе через Google.
func Respond(w http.ResponseWriter, r *http.Request, log *slog.Logger, router Router, token string, user *models.User) {
	decision, err := router.Landing(r.Context(), user.UUID)
	if err != nil {
		log.Error("failed to route user", sl.UserUID(user.UUID), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("login success", sl.UserUID(user.UUID), slog.String("route", string(decision.Route)))
	render.JSON(w, r, response.StatusOKWithData(Result{
		Token:    token,
		User:     user,
		Decision: decision,
	}))
}
