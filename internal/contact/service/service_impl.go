package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/hopelink/hopelink/internal/clock"
	"github.com/hopelink/hopelink/internal/config"
	"github.com/hopelink/hopelink/internal/contact/domain"
	"github.com/hopelink/hopelink/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Config config.Config
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   domain.Repository
	Email  email.Provider
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	cfg   config.Config
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	email email.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("contact.service"),
		cfg:   p.Config,
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		email: p.Email,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (domain.ContactMessage, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ContactMessage{}, domain.ErrInvalidName
	}

	addr := strings.ToLower(strings.TrimSpace(req.Email))
	if addr == "" || !strings.Contains(addr, "@") {
		return domain.ContactMessage{}, domain.ErrInvalidEmail
	}

	body := strings.TrimSpace(req.Message)
	if body == "" {
		return domain.ContactMessage{}, domain.ErrInvalidMessage
	}

	message := domain.ContactMessage{
		ID:           s.genID.Generate(),
		Name:         name,
		Email:        addr,
		Organization: strings.TrimSpace(req.Organization),
		Message:      body,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &message); err != nil {
		return domain.ContactMessage{}, err
	}

	// Forwarding to the inbox is best effort; the stored message is
	// the source of truth.
	subject := fmt.Sprintf("New contact message from %s", name)
	from := name
	if message.Organization != "" {
		from = fmt.Sprintf("%s (%s)", name, message.Organization)
	}
	htmlBody := fmt.Sprintf("<p>From: %s &lt;%s&gt;</p><p>%s</p>",
		html.EscapeString(from), html.EscapeString(addr), html.EscapeString(body))
	if err := s.email.Send(ctx, []string{s.cfg.ContactInbox}, subject, htmlBody); err != nil {
		s.log.Warn("failed to forward contact message", zap.Error(err),
			zap.String("message_id", message.ID.String()))
	}

	return message, nil
}
