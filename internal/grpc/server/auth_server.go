// Package server реализует gRPC-сервер сервиса авторизации.
//
// AuthServer принимает запросы регистрации, входа, проверки и отзыва токенов,
// подтверждения почты. Бизнес-логика делегируется AuthService, доменные ошибки
// переводятся в коды gRPC.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/jam/internal/grpc/authpb"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
	"github.com/magabrotheeeer/jam/internal/models"
)

// AuthService - бизнес-логика, которую обслуживает AuthServer.
type AuthService interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	LoginGoogle(ctx context.Context, idToken string) (string, *models.User, error)
	ValidateToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, userUID string) error
	VerificationStatus(ctx context.Context, userUID string) (bool, error)
}

// AuthServer реализует authpb.AuthServiceServer.
type AuthServer struct {
	authpb.UnimplementedAuthServiceServer
	authService AuthService
	log         *slog.Logger
}

// NewAuthServer создает AuthServer.
func NewAuthServer(authService AuthService, logger *slog.Logger) *AuthServer {
	return &AuthServer{
		authService: authService,
		log:         logger,
	}
}

// Register создает пользователя.
func (s *AuthServer) Register(ctx context.Context, req *authpb.RegisterRequest) (*authpb.RegisterResponse, error) {
	uid, err := s.authService.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail("Register", err)
	}
	s.log.Info("user registered", sl.UserUID(uid))
	return &authpb.RegisterResponse{UserUID: uid}, nil
}

// Login проверяет пароль и выдаёт токен.
func (s *AuthServer) Login(ctx context.Context, req *authpb.LoginRequest) (*authpb.LoginResponse, error) {
	token, user, err := s.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail("Login", err)
	}
	return &authpb.LoginResponse{Token: token, User: toProto(user)}, nil
}

// LoginGoogle выполняет вход по ID-токену Google.
func (s *AuthServer) LoginGoogle(ctx context.Context, req *authpb.LoginGoogleRequest) (*authpb.LoginResponse, error) {
	token, user, err := s.authService.LoginGoogle(ctx, req.IDToken)
	if err != nil {
		return nil, s.fail("LoginGoogle", err)
	}
	return &authpb.LoginResponse{Token: token, User: toProto(user)}, nil
}

// ValidateToken проверяет токен и возвращает его владельца.
func (s *AuthServer) ValidateToken(ctx context.Context, req *authpb.ValidateTokenRequest) (*authpb.ValidateTokenResponse, error) {
	user, err := s.authService.ValidateToken(ctx, req.Token)
	if err != nil {
		return nil, s.fail("ValidateToken", err)
	}
	return &authpb.ValidateTokenResponse{User: toProto(user)}, nil
}

// Logout отзывает токен.
func (s *AuthServer) Logout(ctx context.Context, req *authpb.LogoutRequest) (*authpb.Empty, error) {
	if err := s.authService.Logout(ctx, req.Token); err != nil {
		return nil, s.fail("Logout", err)
	}
	return &authpb.Empty{}, nil
}

// VerifyEmail подтверждает почту.
func (s *AuthServer) VerifyEmail(ctx context.Context, req *authpb.VerifyEmailRequest) (*authpb.VerifyEmailResponse, error) {
	uid, err := s.authService.VerifyEmail(ctx, req.Token)
	if err != nil {
		return nil, s.fail("VerifyEmail", err)
	}
	return &authpb.VerifyEmailResponse{UserUID: uid}, nil
}

// ResendVerification повторно отправляет письмо подтверждения.
func (s *AuthServer) ResendVerification(ctx context.Context, req *authpb.ResendVerificationRequest) (*authpb.Empty, error) {
	if err := s.authService.ResendVerification(ctx, req.UserUID); err != nil {
		return nil, s.fail("ResendVerification", err)
	}
	return &authpb.Empty{}, nil
}

// VerificationStatus сообщает, подтверждена ли почта.
func (s *AuthServer) VerificationStatus(ctx context.Context, req *authpb.VerificationStatusRequest) (*authpb.VerificationStatusResponse, error) {
	verified, err := s.authService.VerificationStatus(ctx, req.UserUID)
	if err != nil {
		return nil, s.fail("VerificationStatus", err)
	}
	return &authpb.VerificationStatusResponse{Verified: verified}, nil
}

// fail логирует ошибку и переводит её в статус gRPC. Ожидаемые отказы
// (неверный пароль, недействительный токен) пишутся на уровне Info.
func (s *AuthServer) fail(method string, err error) error {
	level := slog.LevelError
	if errors.Is(err, models.ErrInvalidCredentials) || errors.Is(err, models.ErrInvalidToken) ||
		errors.Is(err, models.ErrEmailTaken) || errors.Is(err, models.ErrValidation) {
		level = slog.LevelInfo
	}
	s.log.Log(context.Background(), level, "auth request failed", slog.String("method", method), sl.Err(err))
	return authpb.ToStatus(err)
}

func toProto(u *models.User) *authpb.User {
	if u == nil {
		return nil
	}
	return &authpb.User{
		UID:           u.UUID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Username:      u.Username,
	}
}

// LoggingInterceptor пишет в лог метод, код ответа и длительность каждого вызова.
func LoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("grpc call",
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}
