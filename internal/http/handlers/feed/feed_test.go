package feed

import (
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

func (m *MockService) Feed(ctx context.Context, userUID string) ([]models.FeedItem, error) {
	args := m.Called(ctx, userUID)
	res, _ := args.Get(0).([]models.FeedItem)
	return res, args.Error(1)
}

func TestFeedHandler(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.FeedItem
		serviceErr   error
		wantStatus   int
		expectedBody string
	}{
		{
			name:         "пустая лента",
			wantStatus:   http.StatusOK,
			expectedBody: `"items":[]`,
		},
		{
			name: "песни подписок",
			items: []models.FeedItem{
				{Username: "bob", Song: &models.SongOfTheDay{UserUID: "bob", SongID: "trk-1", Title: "Song"}},
			},
			wantStatus:   http.StatusOK,
			expectedBody: `"username":"bob"`,
		},
		{
			name:         "ошибка хранилища",
			serviceErr:   errors.New("db down"),
			wantStatus:   http.StatusInternalServerError,
			expectedBody: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Feed", mock.Anything, "me").Return(tt.items, tt.serviceErr).Once()

			req := httptest.NewRequest(http.MethodGet, "/feed", nil)
			req = req.WithContext(middlewarectx.WithUser(req.Context(), &models.User{UUID: "me", EmailVerified: true}))
			rr := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})), svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
