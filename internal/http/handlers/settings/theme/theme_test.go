package theme

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/jam/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jam/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Theme(ctx context.Context, userUID string) (models.Theme, error) {
	args := m.Called(ctx, userUID)
	return args.Get(0).(models.Theme), args.Error(1)
}

func (m *MockService) SetTheme(ctx context.Context, userUID string, theme models.Theme) (models.Theme, error) {
	args := m.Called(ctx, userUID, theme)
	return args.Get(0).(models.Theme), args.Error(1)
}

func (m *MockService) ToggleTheme(ctx context.Context, userUID string) (models.Theme, error) {
	args := m.Called(ctx, userUID)
	return args.Get(0).(models.Theme), args.Error(1)
}

func newHandler(svc *MockService) *Handler {
	return New(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})), svc)
}

func newRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/settings/theme", bytes.NewBufferString(body))
	return req.WithContext(middlewarectx.WithUser(req.Context(), &models.User{UUID: "me", EmailVerified: true}))
}

func TestThemeHandler_Get(t *testing.T) {
	svc := new(MockService)
	svc.On("Theme", mock.Anything, "me").Return(models.ThemeLight, nil).Once()
	svc.On("Theme", mock.Anything, "me").Return(models.Theme(""), models.ErrNotFound).Once()
	h := newHandler(svc)

	rr := httptest.NewRecorder()
	h.Get(rr, newRequest(http.MethodGet, ""))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK","data":{"theme":"light","is_light":true}}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.Get(rr, newRequest(http.MethodGet, ""))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	svc.AssertExpectations(t)
}

func TestThemeHandler_Set(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		setup        func(*MockService)
		wantStatus   int
		expectedBody string
	}{
		{
			name: "тёмная тема",
			body: `{"theme":"dark"}`,
			setup: func(m *MockService) {
				m.On("SetTheme", mock.Anything, "me", models.ThemeDark).Return(models.ThemeDark, nil).Once()
			},
			wantStatus:   http.StatusOK,
			expectedBody: `"is_light":false`,
		},
		{
			name:         "неизвестная тема",
			body:         `{"theme":"sepia"}`,
			setup:        func(*MockService) {},
			wantStatus:   http.StatusUnprocessableEntity,
			expectedBody: "field Theme must be one of: light dark",
		},
		{
			name:         "битый JSON",
			body:         `{`,
			setup:        func(*MockService) {},
			wantStatus:   http.StatusBadRequest,
			expectedBody: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setup(svc)

			rr := httptest.NewRecorder()
			newHandler(svc).Set(rr, newRequest(http.MethodPut, tt.body))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestThemeHandler_Toggle(t *testing.T) {
	svc := new(MockService)
	svc.On("ToggleTheme", mock.Anything, "me").Return(models.ThemeDark, nil).Once()
	svc.On("ToggleTheme", mock.Anything, "me").Return(models.Theme(""), errors.New("db down")).Once()
	h := newHandler(svc)

	rr := httptest.NewRecorder()
	h.Toggle(rr, newRequest(http.MethodPost, ""))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"theme":"dark"`)

	rr = httptest.NewRecorder()
	h.Toggle(rr, newRequest(http.MethodPost, ""))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	svc.AssertExpectations(t)
}
