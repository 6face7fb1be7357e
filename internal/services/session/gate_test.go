package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/jam/internal/lib/day"
	"github.com/magabrotheeeer/jam/internal/models"
)

const uid = "user-1"

type memMarkers struct {
	values map[string]string
	err    error
}

func newMemMarkers() *memMarkers {
	return &memMarkers{values: map[string]string{}}
}

func (m *memMarkers) GetMarker(_ context.Context, userUID, name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.values[userUID+"/"+name]
	if !ok {
		return "", models.ErrNotFound
	}
	return v, nil
}

func (m *memMarkers) SetMarker(_ context.Context, userUID, name, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[userUID+"/"+name] = value
	return nil
}

func (m *memMarkers) DeleteMarker(_ context.Context, userUID, name string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.values, userUID+"/"+name)
	return nil
}

func (m *memMarkers) get(name string) (string, bool) {
	v, ok := m.values[uid+"/"+name]
	return v, ok
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetSongOfTheDay(ctx context.Context, userUID, d string) (*models.SongOfTheDay, error) {
	args := m.Called(ctx, userUID, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SongOfTheDay), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func clockAt(date string) day.Clock {
	t, err := time.Parse(day.Layout, date)
	if err != nil {
		panic(err)
	}
	return day.Fixed(t.Add(9 * time.Hour))
}

func TestGate_Decide(t *testing.T) {
	const today = "2024-06-01"

	tests := []struct {
		name         string
		markers      map[string]string
		setupRepo    func(r *MockRepository)
		wantRoute    models.Route
		wantNewDay   bool
		wantSelected string
	}{
		{
			name:       "no stored login date",
			markers:    map[string]string{},
			wantRoute:  models.RouteSongSelection,
			wantNewDay: true,
		},
		{
			name: "stored login date from another day clears selection",
			markers: map[string]string{
				models.MarkerLastLoginDate: "2024-05-31",
				models.MarkerSelectedSong:  "spotify:old",
			},
			wantRoute:  models.RouteSongSelection,
			wantNewDay: true,
		},
		{
			name: "visited today with selected song",
			markers: map[string]string{
				models.MarkerLastLoginDate: today,
				models.MarkerSelectedSong:  "spotify:1",
			},
			setupRepo: func(r *MockRepository) {
				r.On("GetSongOfTheDay", mock.Anything, uid, today).
					Return(&models.SongOfTheDay{UserUID: uid, Day: today, SongID: "spotify:1"}, nil).Once()
			},
			wantRoute:    models.RouteHome,
			wantSelected: "spotify:1",
		},
		{
			name:    "visited today without selected song",
			markers: map[string]string{models.MarkerLastLoginDate: today},
			setupRepo: func(r *MockRepository) {
				r.On("GetSongOfTheDay", mock.Anything, uid, today).Return(nil, models.ErrNotFound).Once()
			},
			wantRoute: models.RouteSongSelection,
		},
		{
			name: "stale marker without backend song",
			markers: map[string]string{
				models.MarkerLastLoginDate: today,
				models.MarkerSelectedSong:  "spotify:ghost",
			},
			setupRepo: func(r *MockRepository) {
				r.On("GetSongOfTheDay", mock.Anything, uid, today).Return(nil, models.ErrNotFound).Once()
			},
			wantRoute: models.RouteSongSelection,
		},
		{
			name:    "missing marker refreshed from backend",
			markers: map[string]string{models.MarkerLastLoginDate: today},
			setupRepo: func(r *MockRepository) {
				r.On("GetSongOfTheDay", mock.Anything, uid, today).
					Return(&models.SongOfTheDay{UserUID: uid, Day: today, SongID: "spotify:2"}, nil).Once()
			},
			wantRoute:    models.RouteHome,
			wantSelected: "spotify:2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markers := newMemMarkers()
			for k, v := range tt.markers {
				markers.values[uid+"/"+k] = v
			}
			repo := new(MockRepository)
			if tt.setupRepo != nil {
				tt.setupRepo(repo)
			}
			gate := NewGate(markers, repo, clockAt(today), newNoopLogger())

			got, err := gate.Decide(context.Background(), uid)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoute, got.Route)
			assert.Equal(t, tt.wantNewDay, got.NewDay)
			assert.Equal(t, today, got.Day)

			last, ok := markers.get(models.MarkerLastLoginDate)
			assert.True(t, ok)
			assert.Equal(t, today, last)

			selected, ok := markers.get(models.MarkerSelectedSong)
			if tt.wantSelected == "" {
				assert.False(t, ok, "selected song marker should be cleared")
			} else {
				assert.Equal(t, tt.wantSelected, selected)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestGate_FirstAndSecondLoginOfTheDay(t *testing.T) {
	const today = "2024-06-01"
	markers := newMemMarkers()
	repo := new(MockRepository)
	gate := NewGate(markers, repo, clockAt(today), newNoopLogger())
	ctx := context.Background()

	first, err := gate.Decide(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, models.RouteSongSelection, first.Route)
	last, _ := markers.get(models.MarkerLastLoginDate)
	assert.Equal(t, today, last)

	require.NoError(t, gate.MarkSongSelected(ctx, uid, "spotify:1"))
	repo.On("GetSongOfTheDay", mock.Anything, uid, today).
		Return(&models.SongOfTheDay{UserUID: uid, Day: today, SongID: "spotify:1"}, nil).Once()

	second, err := gate.Decide(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, models.RouteHome, second.Route)
	assert.False(t, second.NewDay)
	repo.AssertExpectations(t)
}

func TestGate_Decide_MarkerStoreError(t *testing.T) {
	markers := newMemMarkers()
	markers.err = errors.New("redis down")
	gate := NewGate(markers, new(MockRepository), clockAt("2024-06-01"), newNoopLogger())

	_, err := gate.Decide(context.Background(), uid)
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), "redis down")
}

func TestGate_Decide_BackendError(t *testing.T) {
	markers := newMemMarkers()
	markers.values[uid+"/"+models.MarkerLastLoginDate] = "2024-06-01"
	repo := new(MockRepository)
	repo.On("GetSongOfTheDay", mock.Anything, uid, "2024-06-01").Return(nil, errors.New("db down")).Once()
	gate := NewGate(markers, repo, clockAt("2024-06-01"), newNoopLogger())

	_, err := gate.Decide(context.Background(), uid)
	assert.Error(t, err)
}

func TestGate_Landing(t *testing.T) {
	const today = "2024-06-01"

	tests := []struct {
		name      string
		user      *models.User
		wantRoute models.Route
	}{
		{name: "unverified email", user: &models.User{UUID: uid}, wantRoute: models.RouteEmailVerification},
		{name: "no username", user: &models.User{UUID: uid, EmailVerified: true}, wantRoute: models.RouteUsername},
		{name: "ready", user: &models.User{UUID: uid, EmailVerified: true, Username: "alice"}, wantRoute: models.RouteSongSelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetUser", mock.Anything, uid).Return(tt.user, nil).Once()
			gate := NewGate(newMemMarkers(), repo, clockAt(today), newNoopLogger())

			got, err := gate.Landing(context.Background(), uid)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoute, got.Route)
		})
	}

	t.Run("missing user", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUser", mock.Anything, uid).Return(nil, models.ErrNotFound).Once()
		gate := NewGate(newMemMarkers(), repo, clockAt(today), newNoopLogger())

		_, err := gate.Landing(context.Background(), uid)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestGate_TouchThenDecide(t *testing.T) {
	const today = "2024-06-01"
	markers := newMemMarkers()
	repo := new(MockRepository)
	repo.On("GetSongOfTheDay", mock.Anything, uid, today).Return(nil, models.ErrNotFound).Once()
	gate := NewGate(markers, repo, clockAt(today), newNoopLogger())

	require.NoError(t, gate.Touch(context.Background(), uid))
	got, err := gate.Decide(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, models.RouteSongSelection, got.Route)
	assert.False(t, got.NewDay)
}
