package jam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/jam/internal/cache"
	"github.com/magabrotheeeer/jam/internal/config"
	"github.com/magabrotheeeer/jam/internal/grpc/client"
	"github.com/magabrotheeeer/jam/internal/http/handlers/health"
	"github.com/magabrotheeeer/jam/internal/lib/day"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/migrations"
	commentservice "github.com/magabrotheeeer/jam/internal/services/comments"
	followservice "github.com/magabrotheeeer/jam/internal/services/follow"
	profileservice "github.com/magabrotheeeer/jam/internal/services/profile"
	sessionservice "github.com/magabrotheeeer/jam/internal/services/session"
	songservice "github.com/magabrotheeeer/jam/internal/services/songs"
	"github.com/magabrotheeeer/jam/internal/storage"
)

// App - HTTP API Jam.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *storage.Storage
	cache      *cache.Cache
	authClient *client.AuthClient
}

// New подключает хранилища, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.jam.New"

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	authClient, err := client.NewAuthClient(cfg.GRPCAuthAddress)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	clock := day.New(loc)
	gate := sessionservice.NewGate(cache.NewMarkerStore(cacheRedis, cfg.MarkerTTL), db, clock, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.Limits, Services{
		Auth:     authClient,
		Gate:     gate,
		Profile:  profileservice.New(db, cacheRedis, gate, clock, logger),
		Follow:   followservice.New(db),
		Songs:    songservice.New(db, gate, clock, logger),
		Comments: commentservice.New(db, clock, logger),
		Health: map[string]health.Pinger{
			"postgres": db,
			"redis":    cacheRedis,
		},
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		cache:      cacheRedis,
		authClient: authClient,
	}, nil
}

// Run обслуживает HTTP до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	a.close()
	return err
}

func (a *App) close() {
	if err := a.authClient.Close(); err != nil {
		a.logger.Error("failed to close auth client", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
