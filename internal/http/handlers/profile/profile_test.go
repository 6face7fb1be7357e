package profile

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/jam/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jam/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Me(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	res, _ := args.Get(0).(*models.User)
	return res, args.Error(1)
}

func (m *MockService) Public(ctx context.Context, viewerUID, userUID string) (*models.PublicProfile, error) {
	args := m.Called(ctx, viewerUID, userUID)
	res, _ := args.Get(0).(*models.PublicProfile)
	return res, args.Error(1)
}

func (m *MockService) Update(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, userUID, upd)
	res, _ := args.Get(0).(*models.User)
	return res, args.Error(1)
}

func newRouter(svc *MockService) http.Handler {
	h := New(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})), svc)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middlewarectx.WithUser(r.Context(), &models.User{UUID: "me", EmailVerified: true})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Get("/users/me", h.Me)
	r.Patch("/users/me", h.Update)
	r.Get("/users/{id}", h.Get)
	return r
}

func TestProfileHandler_Get(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		setup        func(*MockService)
		wantStatus   int
		expectedBody string
	}{
		{
			name:   "профиль найден",
			target: "bob",
			setup: func(m *MockService) {
				m.On("Public", mock.Anything, "me", "bob").
					Return(&models.PublicProfile{UUID: "bob", Username: "bob", Followers: 2}, nil).Once()
			},
			wantStatus:   http.StatusOK,
			expectedBody: `"username":"bob"`,
		},
		{
			name:   "пользователь не найден",
			target: "ghost",
			setup: func(m *MockService) {
				m.On("Public", mock.Anything, "me", "ghost").Return(nil, models.ErrNotFound).Once()
			},
			wantStatus:   http.StatusNotFound,
			expectedBody: "not found",
		},
		{
			name:   "ошибка хранилища",
			target: "bob",
			setup: func(m *MockService) {
				m.On("Public", mock.Anything, "me", "bob").Return(nil, errors.New("db down")).Once()
			},
			wantStatus:   http.StatusInternalServerError,
			expectedBody: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setup(svc)

			rr := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/"+tt.target, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestProfileHandler_Me(t *testing.T) {
	svc := new(MockService)
	svc.On("Me", mock.Anything, "me").Return(&models.User{UUID: "me", Username: "ann", Email: "ann@example.com"}, nil).Once()

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"ann"`)
	svc.AssertExpectations(t)
}

func TestProfileHandler_Update(t *testing.T) {
	bio := "indie and jazz"
	tests := []struct {
		name         string
		body         string
		setup        func(*MockService)
		wantStatus   int
		expectedBody string
	}{
		{
			name: "описание изменено",
			body: `{"bio":"indie and jazz"}`,
			setup: func(m *MockService) {
				m.On("Update", mock.Anything, "me", models.ProfileUpdate{Bio: &bio}).
					Return(&models.User{UUID: "me", Bio: bio}, nil).Once()
			},
			wantStatus:   http.StatusOK,
			expectedBody: `"bio":"indie and jazz"`,
		},
		{
			name:         "слишком длинное описание",
			body:         `{"bio":"` + strings.Repeat("a", 161) + `"}`,
			setup:        func(*MockService) {},
			wantStatus:   http.StatusUnprocessableEntity,
			expectedBody: "field Bio must be at most 160 characters",
		},
		{
			name:         "некорректная ссылка на картинку",
			body:         `{"profile_picture":"not a url"}`,
			setup:        func(*MockService) {},
			wantStatus:   http.StatusUnprocessableEntity,
			expectedBody: "field ProfilePicture must be a valid url",
		},
		{
			name:         "битый JSON",
			body:         `{"bio":`,
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
			newRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/users/me", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
