package comment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/jam/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jam/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, ownerUID, songID, date string) ([]models.Comment, error) {
	args := m.Called(ctx, ownerUID, songID, date)
	res, _ := args.Get(0).([]models.Comment)
	return res, args.Error(1)
}

func (m *MockService) Add(ctx context.Context, authorUID, ownerUID, songID, text string) (*models.Comment, error) {
	args := m.Called(ctx, authorUID, ownerUID, songID, text)
	res, _ := args.Get(0).(*models.Comment)
	return res, args.Error(1)
}

// newRouter подключает обработчики к chi, чтобы заполнить параметры пути.
func newRouter(svc *MockService) http.Handler {
	h := New(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})), svc)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middlewarectx.WithUser(r.Context(), &models.User{UUID: "author-1", EmailVerified: true})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Get("/users/{id}/songs/{songID}/comments", h.List)
	r.Post("/users/{id}/songs/{songID}/comments", h.Add)
	return r
}

func TestCommentHandler_List(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, "owner-1", "song-1", "").Return([]models.Comment(nil), nil).Once()
	svc.On("List", mock.Anything, "owner-1", "song-1", "2024-13-01").
		Return(nil, fmt.Errorf("comments.List: %w: bad date", models.ErrValidation)).Once()

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/owner-1/songs/song-1/comments", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK","data":{"comments":[]}}`, rr.Body.String())

	rr = httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/owner-1/songs/song-1/comments?date=2024-13-01", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	svc.AssertExpectations(t)
}

func TestCommentHandler_Add(t *testing.T) {
	created := &models.Comment{
		ID:             "c-1",
		OwnerUID:       "owner-1",
		SongID:         "song-1",
		Day:            "2024-06-01",
		Text:           "great track",
		AuthorUID:      "author-1",
		AuthorUsername: "bob",
		CreatedAt:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name         string
		body         string
		setup        func(*MockService)
		wantStatus   int
		expectedBody string
	}{
		{
			name: "комментарий добавлен",
			body: `{"text":"great track"}`,
			setup: func(m *MockService) {
				m.On("Add", mock.Anything, "author-1", "owner-1", "song-1", "great track").Return(created, nil).Once()
			},
			wantStatus:   http.StatusCreated,
			expectedBody: `"created_by":"bob"`,
		},
		{
			name: "нет имени пользователя",
			body: `{"text":"hi"}`,
			setup: func(m *MockService) {
				m.On("Add", mock.Anything, "author-1", "owner-1", "song-1", "hi").Return(nil, models.ErrUsernameRequired).Once()
			},
			wantStatus:   http.StatusForbidden,
			expectedBody: "choose a username first",
		},
		{
			name:         "пустой текст",
			body:         `{"text":""}`,
			setup:        func(*MockService) {},
			wantStatus:   http.StatusUnprocessableEntity,
			expectedBody: "field Text is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setup(svc)

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/users/owner-1/songs/song-1/comments", bytes.NewBufferString(tt.body))
			newRouter(svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
