package api

// User is the public view of an account. Password hashes never leave the server.
type User struct {
	Id            string `json:"id"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	CreatedAt     int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type SendVerificationEmailRequest struct{}

type SendVerificationEmailResponse struct {
	// AlreadyVerified is set instead of sending when there is nothing to do.
	AlreadyVerified bool  `json:"alreadyVerified,omitempty"`
	ExpiresAt       int64 `json:"expiresAt,omitempty"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type VerifyEmailResponse struct {
	User *User `json:"user"`
}

type CheckEmailVerificationRequest struct{}

type CheckEmailVerificationResponse struct {
	Verified bool `json:"verified"`
}
