package jam

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/jam/internal/config"
	"github.com/magabrotheeeer/jam/internal/models"
)

type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) Register(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthClient) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(1).(*models.User)
	return args.String(0), u, args.Error(2)
}

func (m *MockAuthClient) LoginGoogle(ctx context.Context, idToken string) (string, *models.User, error) {
	args := m.Called(ctx, idToken)
	u, _ := args.Get(1).(*models.User)
	return args.String(0), u, args.Error(2)
}

func (m *MockAuthClient) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockAuthClient) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthClient) VerifyEmail(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockAuthClient) ResendVerification(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

func (m *MockAuthClient) VerificationStatus(ctx context.Context, userUID string) (bool, error) {
	args := m.Called(ctx, userUID)
	return args.Bool(0), args.Error(1)
}

func newTestRouter(auth AuthClient, limits config.Limits) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, slog.New(slog.NewTextHandler(io.Discard, nil)), limits, Services{Auth: auth})
	return r
}

func serve(h http.Handler, method, target, token, addr string) int {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = addr
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRoutes_SessionIsPostOnly(t *testing.T) {
	h := newTestRouter(new(MockAuthClient), config.Limits{RateLimitRPS: 100, RateLimitBurst: 100})

	// Без токена маршрут отвечает 401, значит он зарегистрирован.
	assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodPost, "/api/v1/session", "", "10.0.0.1:1000"))
	assert.Equal(t, http.StatusMethodNotAllowed, serve(h, http.MethodGet, "/api/v1/session", "", "10.0.0.1:1000"))
}

func TestRoutes_AuthorizedRequestsLimitedPerUser(t *testing.T) {
	auth := new(MockAuthClient)
	auth.On("ValidateToken", mock.Anything, "token-alice").
		Return(&models.User{UUID: "alice", EmailVerified: true}, nil)
	auth.On("ValidateToken", mock.Anything, "token-bob").
		Return(&models.User{UUID: "bob", EmailVerified: true}, nil)
	auth.On("Logout", mock.Anything, mock.Anything).Return(nil)

	h := newTestRouter(auth, config.Limits{RateLimitRPS: 0.001, RateLimitBurst: 1})

	// Оба пользователя за одним NAT.
	assert.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/api/v1/logout", "token-alice", "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/api/v1/logout", "token-bob", "10.0.0.1:2000"))
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodPost, "/api/v1/logout", "token-alice", "10.0.0.1:3000"))
}

func TestRoutes_PublicRequestsLimitedPerIP(t *testing.T) {
	auth := new(MockAuthClient)
	auth.On("VerifyEmail", mock.Anything, "t").Return("", models.ErrInvalidToken)

	h := newTestRouter(auth, config.Limits{RateLimitRPS: 0.001, RateLimitBurst: 1})

	assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodGet, "/api/v1/verify-email?token=t", "", "10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodGet, "/api/v1/verify-email?token=t", "", "10.0.0.1:2000"))
	assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodGet, "/api/v1/verify-email?token=t", "", "10.0.0.2:1000"))
}
