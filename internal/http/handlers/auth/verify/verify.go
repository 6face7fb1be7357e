// Package verify реализует обработчики подтверждения почты: переход по ссылке
// из письма, повторную отправку письма и проверку статуса.
package verify

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

// Service - операции подтверждения почты в сервисе авторизации.
type Service interface {
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, userUID string) error
	VerificationStatus(ctx context.Context, userUID string) (bool, error)
}

// Handler подтверждает почту по токену из ссылки.
type Handler struct {
	log        *slog.Logger
	authClient Service
}

// New создает Handler.
func New(log *slog.Logger, authClient Service) *Handler {
	return &Handler{log: log, authClient: authClient}
}

// ServeHTTP godoc
// @Summary Подтверждение почты
// @Description Подтверждает почту по одноразовому токену из письма.
// @Tags Auth
// @Produce  json
// @Param token query string true "Токен из письма"
// @Success 200 {object} response.Response "Почта подтверждена"
// @Failure 400 {object} response.ErrorResponse "Токен не передан"
// @Failure 401 {object} response.ErrorResponse "Токен недействителен"
// @Router /verify-email [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")
	if token == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("token is required"))
		return
	}

	uid, err := h.authClient.VerifyEmail(r.Context(), token)
	if err != nil {
		status, msg := response.FromError(err)
		log.Info("email verification failed", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("email verified", sl.UserUID(uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_uid":       uid,
		"email_verified": true,
	}))
}

// ResendHandler повторно отправляет письмо подтверждения текущему пользователю.
type ResendHandler struct {
	log        *slog.Logger
	authClient Service
}

// NewResend создает ResendHandler.
func NewResend(log *slog.Logger, authClient Service) *ResendHandler {
	return &ResendHandler{log: log, authClient: authClient}
}

// ServeHTTP godoc
// @Summary Повторная отправка письма
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 202 {object} response.Response "Письмо поставлено в очередь"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /verify-email/resend [post]
func (h *ResendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify.resend"

	uid := middlewarectx.UserUIDFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.UserUID(uid),
	)

	if err := h.authClient.ResendVerification(r.Context(), uid); err != nil {
		status, msg := response.FromError(err)
		log.Error("failed to resend verification", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"sent": true}))
}

// Router определяет экран для пользователя с подтверждённой почтой.
type Router interface {
	Landing(ctx context.Context, userUID string) (models.Decision, error)
}

// StatusHandler сообщает, подтверждена ли почта, и куда перейти дальше.
type StatusHandler struct {
	log        *slog.Logger
	authClient Service
	router     Router
}

// NewStatus создает StatusHandler.
func NewStatus(log *slog.Logger, authClient Service, router Router) *StatusHandler {
	return &StatusHandler{log: log, authClient: authClient, router: router}
}

// ServeHTTP godoc
// @Summary Статус подтверждения почты
// @Description Повторно проверяет статус почты (кнопка «Я подтвердил» в клиенте).
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Статус"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /verify-email/status [get]
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify.status"

	uid := middlewarectx.UserUIDFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.UserUID(uid),
	)

	verified, err := h.authClient.VerificationStatus(r.Context(), uid)
	if err != nil {
		status, msg := response.FromError(err)
		log.Error("failed to get verification status", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	decision := models.Decision{Route: models.RouteEmailVerification}
	if verified {
		decision, err = h.router.Landing(r.Context(), uid)
		if err != nil {
			log.Error("failed to route user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
			return
		}
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"email_verified": verified,
		"decision":       decision,
	}))
}
