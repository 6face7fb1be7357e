// Package auth собирает gRPC-сервис авторизации.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/streadway/amqp"
	"google.golang.org/grpc"

	"github.com/magabrotheeeer/jam/internal/cache"
	"github.com/magabrotheeeer/jam/internal/config"
	"github.com/magabrotheeeer/jam/internal/grpc/authpb"
	"github.com/magabrotheeeer/jam/internal/grpc/server"
	"github.com/magabrotheeeer/jam/internal/lib/google"
	"github.com/magabrotheeeer/jam/internal/lib/jwt"
	"github.com/magabrotheeeer/jam/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/migrations"
	authservice "github.com/magabrotheeeer/jam/internal/services/auth"
	"github.com/magabrotheeeer/jam/internal/storage"
)

// App - gRPC-сервер авторизации.
type App struct {
	grpcServer *grpc.Server
	listener   net.Listener
	logger     *slog.Logger
	db         *storage.Storage
	cache      *cache.Cache
	conn       *amqp.Connection
	ch         *amqp.Channel
}

// New подключает зависимости и регистрирует сервис.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.auth.New"

	a := &App{logger: logger}
	if err := a.init(ctx, cfg); err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func (a *App) init(ctx context.Context, cfg *config.Config) error {
	var err error
	if a.db, err = storage.New(ctx, cfg.StorageConnectionString); err != nil {
		return err
	}
	if err = migrations.Run(a.db.DB, cfg.MigrationsPath); err != nil {
		return err
	}
	if a.cache, err = cache.InitServer(ctx, cfg.RedisConnection); err != nil {
		return err
	}
	if a.conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQRetries, cfg.RabbitMQDelay); err != nil {
		return err
	}
	if a.ch, err = rabbitmq.SetupChannel(a.conn, rabbitmq.MailExchange, rabbitmq.MailQueues()); err != nil {
		return err
	}

	verifier := google.NewVerifier(cfg.GoogleClientID, cfg.GoogleCertsURL, &http.Client{Timeout: 5 * time.Second})
	authService := authservice.New(
		a.db,
		a.cache,
		verifier,
		rabbitmq.NewPublisher(a.ch, rabbitmq.MailExchange),
		jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		authservice.Options{
			VerificationTTL:  cfg.VerificationTTL,
			VerificationLink: cfg.VerificationLinkBase,
		},
		a.logger,
	)

	if a.listener, err = net.Listen("tcp", cfg.GRPCAuthAddress); err != nil {
		return err
	}
	a.grpcServer = grpc.NewServer(grpc.ChainUnaryInterceptor(server.LoggingInterceptor(a.logger)))
	authpb.RegisterAuthServiceServer(a.grpcServer, server.NewAuthServer(authService, a.logger))
	return nil
}

// Run обслуживает gRPC до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("Auth gRPC service listening on", slog.String("address", a.listener.Addr().String()))
		errCh <- a.grpcServer.Serve(a.listener)
	}()

	var err error
	select {
	case <-ctx.Done():
		a.grpcServer.GracefulStop()
	case err = <-errCh:
	}
	a.close()
	return err
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", sl.Err(err))
		}
	}
}
