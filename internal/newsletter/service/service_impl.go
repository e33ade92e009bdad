package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/hopelink/hopelink/internal/clock"
	"github.com/hopelink/hopelink/internal/newsletter/domain"
	"github.com/hopelink/hopelink/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
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
		log:   p.Log.Named("newsletter.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Subscribe is idempotent: re-subscribing an address succeeds and
// reports the existing subscription.
func (s *Service) Subscribe(ctx context.Context, req domain.SubscribeRequest) (domain.SubscribeResponse, error) {
	addr := strings.ToLower(strings.TrimSpace(req.Email))
	if addr == "" || !strings.Contains(addr, "@") {
		return domain.SubscribeResponse{}, domain.ErrInvalidEmail
	}

	subscriber := domain.Subscriber{
		ID:           s.genID.Generate(),
		Email:        addr,
		SubscribedAt: s.clock.Now(),
	}

	inserted, err := s.repo.Insert(ctx, s.db, &subscriber)
	if err != nil && !db.IsDuplicateKeyErr(err) {
		return domain.SubscribeResponse{}, err
	}
	if err == nil && inserted {
		return domain.SubscribeResponse{Subscriber: subscriber}, nil
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, addr)
	if err != nil {
		return domain.SubscribeResponse{}, err
	}
	if existing == nil {
		return domain.SubscribeResponse{Subscriber: subscriber, AlreadySubscribed: true}, nil
	}
	return domain.SubscribeResponse{Subscriber: *existing, AlreadySubscribed: true}, nil
}
