package authpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "jam.auth.v1.AuthService"

// Полные имена методов.
const (
	MethodRegister           = "/" + serviceName + "/Register"
	MethodLogin              = "/" + serviceName + "/Login"
	MethodLoginGoogle        = "/" + serviceName + "/LoginGoogle"
	MethodValidateToken      = "/" + serviceName + "/ValidateToken"
	MethodLogout             = "/" + serviceName + "/Logout"
	MethodVerifyEmail        = "/" + serviceName + "/VerifyEmail"
	MethodResendVerification = "/" + serviceName + "/ResendVerification"
	MethodVerificationStatus = "/" + serviceName + "/VerificationStatus"
)

// AuthServiceServer - серверная часть сервиса авторизации.
type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	LoginGoogle(context.Context, *LoginGoogleRequest) (*LoginResponse, error)
	ValidateToken(context.Context, *ValidateTokenRequest) (*ValidateTokenResponse, error)
	Logout(context.Context, *LogoutRequest) (*Empty, error)
	VerifyEmail(context.Context, *VerifyEmailRequest) (*VerifyEmailResponse, error)
	ResendVerification(context.Context, *ResendVerificationRequest) (*Empty, error)
	VerificationStatus(context.Context, *VerificationStatusRequest) (*VerificationStatusResponse, error)
}

// UnimplementedAuthServiceServer возвращает codes.Unimplemented для всех методов.
type UnimplementedAuthServiceServer struct{}

func (UnimplementedAuthServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}

func (UnimplementedAuthServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

func (UnimplementedAuthServiceServer) LoginGoogle(context.Context, *LoginGoogleRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method LoginGoogle not implemented")
}

func (UnimplementedAuthServiceServer) ValidateToken(context.Context, *ValidateTokenRequest) (*ValidateTokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ValidateToken not implemented")
}

func (UnimplementedAuthServiceServer) Logout(context.Context, *LogoutRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}

func (UnimplementedAuthServiceServer) VerifyEmail(context.Context, *VerifyEmailRequest) (*VerifyEmailResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyEmail not implemented")
}

func (UnimplementedAuthServiceServer) ResendVerification(context.Context, *ResendVerificationRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ResendVerification not implemented")
}

func (UnimplementedAuthServiceServer) VerificationStatus(context.Context, *VerificationStatusRequest) (*VerificationStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method VerificationStatus not implemented")
}

// RegisterAuthServiceServer регистрирует srv на s.
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}

// unary строит обработчик метода method для запроса типа Req.
func unary[Req any, Resp any](method string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AuthServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + serviceName + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AuthServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// AuthServiceDesc - описание сервиса для grpc.Server.
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", AuthServiceServer.Register),
		unary("Login", AuthServiceServer.Login),
		unary("LoginGoogle", AuthServiceServer.LoginGoogle),
		unary("ValidateToken", AuthServiceServer.ValidateToken),
		unary("Logout", AuthServiceServer.Logout),
		unary("VerifyEmail", AuthServiceServer.VerifyEmail),
		unary("ResendVerification", AuthServiceServer.ResendVerification),
		unary("VerificationStatus", AuthServiceServer.VerificationStatus),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jam/auth/v1/auth.proto",
}

// AuthServiceClient - клиентская часть сервиса авторизации.
type AuthServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	LoginGoogle(ctx context.Context, in *LoginGoogleRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	ValidateToken(ctx context.Context, in *ValidateTokenRequest, opts ...grpc.CallOption) (*ValidateTokenResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*Empty, error)
	VerifyEmail(ctx context.Context, in *VerifyEmailRequest, opts ...grpc.CallOption) (*VerifyEmailResponse, error)
	ResendVerification(ctx context.Context, in *ResendVerificationRequest, opts ...grpc.CallOption) (*Empty, error)
	VerificationStatus(ctx context.Context, in *VerificationStatusRequest, opts ...grpc.CallOption) (*VerificationStatusResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthServiceClient создает клиент поверх cc. Все вызовы используют JSON-кодек.
func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *authServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *authServiceClient) LoginGoogle(ctx context.Context, in *LoginGoogleRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLoginGoogle, in, opts)
}

func (c *authServiceClient) ValidateToken(ctx context.Context, in *ValidateTokenRequest, opts ...grpc.CallOption) (*ValidateTokenResponse, error) {
	return invoke[ValidateTokenResponse](ctx, c.cc, MethodValidateToken, in, opts)
}

func (c *authServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodLogout, in, opts)
}

func (c *authServiceClient) VerifyEmail(ctx context.Context, in *VerifyEmailRequest, opts ...grpc.CallOption) (*VerifyEmailResponse, error) {
	return invoke[VerifyEmailResponse](ctx, c.cc, MethodVerifyEmail, in, opts)
}

func (c *authServiceClient) ResendVerification(ctx context.Context, in *ResendVerificationRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodResendVerification, in, opts)
}

func (c *authServiceClient) VerificationStatus(ctx context.Context, in *VerificationStatusRequest, opts ...grpc.CallOption) (*VerificationStatusResponse, error) {
	return invoke[VerificationStatusResponse](ctx, c.cc, MethodVerificationStatus, in, opts)
}
