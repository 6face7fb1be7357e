package authpb

// User - данные пользователя, которые возвращает сервис авторизации.
type User struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Username      string `json:"username,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserUID string `json:"user_uid"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginGoogleRequest struct {
	IDToken string `json:"id_token"`
}

// LoginResponse возвращается обоими способами входа.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

type ValidateTokenResponse struct {
	User *User `json:"user"`
}

type LogoutRequest struct {
	Token string `json:"token"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type VerifyEmailResponse struct {
	UserUID string `json:"user_uid"`
}

type ResendVerificationRequest struct {
	UserUID string `json:"user_uid"`
}

type VerificationStatusRequest struct {
	UserUID string `json:"user_uid"`
}

type VerificationStatusResponse struct {
	Verified bool `json:"verified"`
}

// Empty - пустой ответ.
type Empty struct{}
