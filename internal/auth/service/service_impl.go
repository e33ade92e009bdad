package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hopelink/hopelink/internal/auth/domain"
	"github.com/hopelink/hopelink/internal/auth/password"
	"github.com/hopelink/hopelink/internal/clock"
	"github.com/hopelink/hopelink/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	sessionTTL       = 7 * 24 * time.Hour
	minPasswordChars = 8
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("auth.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) SignUp(ctx context.Context, req domain.SignUpRequest) (domain.AuthResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.AuthResult{}, domain.ErrInvalidName
	}

	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.AuthResult{}, domain.ErrInvalidEmail
	}

	if len(req.Password) < minPasswordChars {
		return domain.AuthResult{}, domain.ErrWeakPassword
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.AuthResult{}, err
	}

	now := s.clock.Now()
	user := domain.User{
		ID:           s.genID.Generate(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.InsertUser(ctx, s.db, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.AuthResult{}, domain.ErrEmailTaken
		}
		return domain.AuthResult{}, err
	}

	return s.openSession(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, req domain.SignInRequest) (domain.AuthResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByEmail(ctx, s.db, email)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, *user)
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.repo.DeleteSession(ctx, s.db, hashToken(token))
}

func (s *Service) Authenticate(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, domain.ErrUnauthenticated
	}

	session, err := s.repo.FindSessionByTokenHash(ctx, s.db, hashToken(token))
	if err != nil {
		return domain.User{}, err
	}
	if session == nil {
		return domain.User{}, domain.ErrUnauthenticated
	}
	if !session.ExpiresAt.After(s.clock.Now()) {
		_ = s.repo.DeleteSession(ctx, s.db, session.TokenHash)
		return domain.User{}, domain.ErrSessionExpired
	}

	user, err := s.repo.FindUserByID(ctx, s.db, session.UserID)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrUnauthenticated
	}

	return *user, nil
}

func (s *Service) openSession(ctx context.Context, user domain.User) (domain.AuthResult, error) {
	token, err := newToken()
	if err != nil {
		return domain.AuthResult{}, err
	}

	now := s.clock.Now()
	session := domain.Session{
		ID:        s.genID.Generate(),
		UserID:    user.ID,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(sessionTTL),
		CreatedAt: now,
	}

	if err := s.repo.InsertSession(ctx, s.db, &session); err != nil {
		return domain.AuthResult{}, err
	}

	return domain.AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func newToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
