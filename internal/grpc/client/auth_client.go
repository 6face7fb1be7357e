// Package client - клиент сервиса авторизации для HTTP API.
// Коды gRPC переводятся обратно в доменные ошибки models.
package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/magabrotheeeer/jam/internal/grpc/authpb"
	"github.com/magabrotheeeer/jam/internal/models"
)

// AuthClient вызывает сервис авторизации.
type AuthClient struct {
	conn   *grpc.ClientConn
	client authpb.AuthServiceClient
}

// NewAuthClient создает клиент для сервиса по адресу addr. Соединение
// устанавливается лениво при первом вызове.
func NewAuthClient(addr string, opts ...grpc.DialOption) (*AuthClient, error) {
	const op = "client.NewAuthClient"

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AuthClient{conn: conn, client: authpb.NewAuthServiceClient(conn)}, nil
}

// Close закрывает соединение.
func (a *AuthClient) Close() error {
	return a.conn.Close()
}

func (a *AuthClient) Register(ctx context.Context, email, password string) (string, error) {
	resp, err := a.client.Register(ctx, &authpb.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return "", authpb.FromStatus(err)
	}
	return resp.UserUID, nil
}

func (a *AuthClient) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	resp, err := a.client.Login(ctx, &authpb.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", nil, authpb.FromStatus(err)
	}
	return resp.Token, fromProto(resp.User), nil
}

func (a *AuthClient) LoginGoogle(ctx context.Context, idToken string) (string, *models.User, error) {
	resp, err := a.client.LoginGoogle(ctx, &authpb.LoginGoogleRequest{IDToken: idToken})
	if err != nil {
		return "", nil, authpb.FromStatus(err)
	}
	return resp.Token, fromProto(resp.User), nil
}

func (a *AuthClient) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	resp, err := a.client.ValidateToken(ctx, &authpb.ValidateTokenRequest{Token: token})
	if err != nil {
		return nil, authpb.FromStatus(err)
	}
	if resp.User == nil {
		return nil, models.ErrInvalidToken
	}
	return fromProto(resp.User), nil
}

func (a *AuthClient) Logout(ctx context.Context, token string) error {
	_, err := a.client.Logout(ctx, &authpb.LogoutRequest{Token: token})
	return authpb.FromStatus(err)
}

func (a *AuthClient) VerifyEmail(ctx context.Context, token string) (string, error) {
	resp, err := a.client.VerifyEmail(ctx, &authpb.VerifyEmailRequest{Token: token})
	if err != nil {
		return "", authpb.FromStatus(err)
	}
	return resp.UserUID, nil
}

func (a *AuthClient) ResendVerification(ctx context.Context, userUID string) error {
	_, err := a.client.ResendVerification(ctx, &authpb.ResendVerificationRequest{UserUID: userUID})
	return authpb.FromStatus(err)
}

func (a *AuthClient) VerificationStatus(ctx context.Context, userUID string) (bool, error) {
	resp, err := a.client.VerificationStatus(ctx, &authpb.VerificationStatusRequest{UserUID: userUID})
	if err != nil {
		return false, authpb.FromStatus(err)
	}
	return resp.Verified, nil
}

func fromProto(u *authpb.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		UUID:          u.UID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Username:      u.Username,
	}
}
