package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hopelink/hopelink/internal/auth/domain"
	authrepo "github.com/hopelink/hopelink/internal/auth/repository"
	"github.com/hopelink/hopelink/internal/clock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error
	prepareAuthSchema(t, db)

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	service := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  authrepo.Provide(),
	})

	return service, fake
}

func prepareAuthSchema(t *testing.T, db *gorm.DB) {
	t.Helper()

	statements := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'USER',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE sessions (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			token_hash TEXT NOT NULL UNIQUE,
			expires_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, statement := range statements {
		if err := db.Exec(statement).Error; err != nil {
			t.Fatalf("prepare schema: %v", err)
		}
	}
}

func TestSignUpAndAuthenticate(t *testing.T) {
	service, _ := setupAuthService(t)

	result, err := service.SignUp(context.Background(), domain.SignUpRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a session token")
	}
	if result.User.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", result.User.Email)
	}
	if result.User.Role != domain.RoleUser {
		t.Fatalf("expected USER role, got %s", result.User.Role)
	}

	user, err := service.Authenticate(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != result.User.ID {
		t.Fatalf("expected user %s, got %s", result.User.ID, user.ID)
	}
}

func TestSignUpValidation(t *testing.T) {
	service, _ := setupAuthService(t)

	cases := []struct {
		name string
		req  domain.SignUpRequest
		want error
	}{
		{"blank name", domain.SignUpRequest{Name: " ", Email: "a@b.c", Password: "longenough"}, domain.ErrInvalidName},
		{"bad email", domain.SignUpRequest{Name: "Alice", Email: "nope", Password: "longenough"}, domain.ErrInvalidEmail},
		{"short password", domain.SignUpRequest{Name: "Alice", Email: "a@b.c", Password: "short"}, domain.ErrWeakPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.SignUp(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	service, _ := setupAuthService(t)

	req := domain.SignUpRequest{Name: "Alice", Email: "alice@example.com", Password: "longenough"}
	if _, err := service.SignUp(context.Background(), req); err != nil {
		t.Fatalf("first sign up: %v", err)
	}

	req.Name = "Other Alice"
	_, err := service.SignUp(context.Background(), req)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignInVerifiesPassword(t *testing.T) {
	service, _ := setupAuthService(t)

	if _, err := service.SignUp(context.Background(), domain.SignUpRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "longenough",
	}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	result, err := service.SignIn(context.Background(), domain.SignInRequest{
		Email:    "ALICE@example.com",
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a session token")
	}

	_, err = service.SignIn(context.Background(), domain.SignInRequest{
		Email:    "alice@example.com",
		Password: "wrongpassword",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err = service.SignIn(context.Background(), domain.SignInRequest{
		Email:    "nobody@example.com",
		Password: "longenough",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthenticateExpiredSession(t *testing.T) {
	service, fake := setupAuthService(t)

	result, err := service.SignUp(context.Background(), domain.SignUpRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	fake.Advance(7*24*time.Hour + time.Minute)

	_, err = service.Authenticate(context.Background(), result.Token)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	// Expired sessions are deleted on first sight, so a retry is plain
	// unauthenticated.
	_, err = service.Authenticate(context.Background(), result.Token)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSignOutInvalidatesToken(t *testing.T) {
	service, _ := setupAuthService(t)

	result, err := service.SignUp(context.Background(), domain.SignUpRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if err := service.SignOut(context.Background(), result.Token); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	_, err = service.Authenticate(context.Background(), result.Token)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthenticateRejectsUnknownToken(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.Authenticate(context.Background(), "garbage-token")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	_, err = service.Authenticate(context.Background(), "")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for empty token, got %v", err)
	}
}
