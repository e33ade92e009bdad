package domain

import (
	"context"
	"errors"
	"time"
)

type SignUpRequest struct {
	Name     string
	Email    string
	Password string
}

type SignInRequest struct {
	Email    string
	Password string
}

// AuthResult carries the authenticated user plus the raw session token
// the transport layer writes into the cookie.
type AuthResult struct {
	User      User
	Token     string
	ExpiresAt time.Time
}

type Service interface {
	SignUp(context.Context, SignUpRequest) (AuthResult, error)
	SignIn(context.Context, SignInRequest) (AuthResult, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (User, error)
}

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrWeakPassword       = errors.New("weak_password")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionExpired     = errors.New("session_expired")
	ErrUnauthenticated    = errors.New("unauthenticated")
)
