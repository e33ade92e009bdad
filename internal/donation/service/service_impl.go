package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	checkoutdomain "github.com/hopelink/hopelink/internal/checkout/domain"
	"github.com/hopelink/hopelink/internal/clock"
	"github.com/hopelink/hopelink/internal/config"
	"github.com/hopelink/hopelink/internal/donation/domain"
	"github.com/hopelink/hopelink/internal/observability/logger"
	"github.com/hopelink/hopelink/internal/observability/metrics"
	paymentdomain "github.com/hopelink/hopelink/internal/payment/domain"
	projectdomain "github.com/hopelink/hopelink/internal/project/domain"
	"github.com/hopelink/hopelink/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 50
)

// errAlreadyRecorded aborts the recording transaction when another
// confirmation won the insert race. It never escapes this package.
var errAlreadyRecorded = errors.New("already_recorded")

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Config   config.Config
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Projects projectdomain.Repository
	Gateway  paymentdomain.Gateway
	Events   paymentdomain.EventRepository `optional:"true"`
	Metrics  *metrics.Metrics              `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	cfg      config.Config
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	projects projectdomain.Repository
	gateway  paymentdomain.Gateway
	events   paymentdomain.EventRepository
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("donation.service"),
		cfg:      p.Config,
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		projects: p.Projects,
		gateway:  p.Gateway,
		events:   p.Events,
		metrics:  p.Metrics,
	}
}

func (s *Service) Confirm(ctx context.Context, req domain.ConfirmRequest) (domain.ConfirmResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return domain.ConfirmResponse{}, domain.ErrInvalidSession
	}

	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, paymentdomain.ErrSessionNotFound) {
			return domain.ConfirmResponse{}, domain.ErrInvalidSession
		}
		return domain.ConfirmResponse{}, err
	}

	return s.confirm(ctx, session, "poll")
}

func (s *Service) ConfirmFromEvent(ctx context.Context, event *paymentdomain.CheckoutEvent) (domain.ConfirmResponse, error) {
	if event == nil || strings.TrimSpace(event.Session.ID) == "" {
		return domain.ConfirmResponse{}, domain.ErrInvalidSession
	}

	s.storeEvent(ctx, event)

	if event.Type != paymentdomain.EventTypeCheckoutCompleted {
		return domain.ConfirmResponse{State: domain.ConfirmStateIgnored}, nil
	}

	return s.confirm(ctx, event.Session, "webhook")
}

// storeEvent keeps the raw delivery for audit. Failing to store it must
// not fail the confirmation, the donation matters more than the audit
// row.
func (s *Service) storeEvent(ctx context.Context, event *paymentdomain.CheckoutEvent) {
	if s.events == nil || len(event.RawPayload) == 0 {
		return
	}
	record := paymentdomain.WebhookEventRecord{
		ID:              s.genID.Generate(),
		ProviderEventID: event.ProviderEventID,
		EventType:       event.Type,
		SessionID:       event.Session.ID,
		Payload:         datatypes.JSON(event.RawPayload),
		ReceivedAt:      s.clock.Now(),
	}
	if _, err := s.events.Insert(ctx, s.db, &record); err != nil {
		logger.WithContext(ctx, s.log).Warn("failed to store webhook event",
			zap.String("provider_event_id", event.ProviderEventID),
			zap.Error(err),
		)
	}
}

// confirm records the donation for a paid session exactly once. Both
// the success-page poll and the webhook funnel through here, in any
// order and concurrently; the unique checkout session reference is the
// arbiter of who records it.
func (s *Service) confirm(ctx context.Context, session paymentdomain.CheckoutSession, source string) (domain.ConfirmResponse, error) {
	log := logger.WithContext(ctx, s.log).With(
		zap.String("session_id", session.ID),
		zap.String("source", source),
	)

	if session.PaymentStatus != paymentdomain.PaymentStatusPaid {
		return domain.ConfirmResponse{
			State:   domain.ConfirmStatePending,
			Session: &session,
		}, nil
	}

	// Fast path: a previous confirmation already recorded it.
	existing, err := s.repo.FindBySessionRef(ctx, s.db, session.ID)
	if err != nil {
		return domain.ConfirmResponse{}, err
	}
	if existing != nil {
		return domain.ConfirmResponse{
			State:           domain.ConfirmStateCompleted,
			AlreadyRecorded: true,
			Donation:        existing,
			Session:         &session,
		}, nil
	}

	intent, err := checkoutdomain.DecodeMetadata(session.Metadata)
	if err != nil {
		log.Error("paid session has undecodable metadata", zap.Error(err))
		return domain.ConfirmResponse{}, domain.ErrUnconfirmableSession
	}

	// A user reference that no longer resolves downgrades the donation
	// to a guest donation rather than failing it.
	userID := intent.UserID
	if userID != nil {
		exists, err := s.repo.UserExists(ctx, s.db, *userID)
		if err != nil {
			return domain.ConfirmResponse{}, err
		}
		if !exists {
			log.Warn("session metadata references unknown user", zap.String("user_id", userID.String()))
			userID = nil
		}
	}

	currency := session.Currency
	if currency == "" {
		currency = s.cfg.DonationCurrency
	}

	now := s.clock.Now()
	donation := domain.Donation{
		ID:                s.genID.Generate(),
		ProjectID:         intent.ProjectID,
		UserID:            userID,
		DonorName:         intent.DonorName,
		DonorEmail:        intent.DonorEmail,
		AmountCents:       intent.AmountCents,
		Currency:          currency,
		Status:            domain.StatusCompleted,
		CheckoutSessionID: session.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted, err := s.repo.Insert(ctx, tx, &donation)
		if err != nil {
			if db.IsDuplicateKeyErr(err) {
				return errAlreadyRecorded
			}
			return err
		}
		if !inserted {
			return errAlreadyRecorded
		}
		return s.projects.IncrementFunding(ctx, tx, intent.ProjectID, intent.AmountCents)
	})
	if txErr != nil {
		if !errors.Is(txErr, errAlreadyRecorded) {
			return domain.ConfirmResponse{}, txErr
		}
		existing, err := s.repo.FindBySessionRef(ctx, s.db, session.ID)
		if err != nil {
			return domain.ConfirmResponse{}, err
		}
		if existing == nil {
			return domain.ConfirmResponse{}, domain.ErrUnconfirmableSession
		}
		return domain.ConfirmResponse{
			State:           domain.ConfirmStateCompleted,
			AlreadyRecorded: true,
			Donation:        existing,
			Session:         &session,
		}, nil
	}

	s.metrics.RecordDonation(ctx, source)
	log.Info("donation recorded",
		zap.String("donation_id", donation.ID.String()),
		zap.String("project_id", donation.ProjectID.String()),
		zap.Int64("amount_cents", donation.AmountCents),
	)

	return domain.ConfirmResponse{
		State:    domain.ConfirmStateCompleted,
		Donation: &donation,
		Session:  &session,
	}, nil
}

func (s *Service) ListByUser(ctx context.Context, req domain.ListByUserRequest) (domain.HistoryResponse, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil || userID == 0 {
		return domain.HistoryResponse{}, domain.ErrInvalidUserID
	}

	items, err := s.repo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return domain.HistoryResponse{}, err
	}

	donations := make([]domain.UserDonation, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		donations = append(donations, *item)
	}
	return domain.HistoryResponse{Donations: donations}, nil
}

func (s *Service) ListRecent(ctx context.Context, req domain.ListRecentRequest) (domain.ListDonationResponse, error) {
	filter := domain.RecentFilter{Limit: req.Limit}
	if filter.Limit <= 0 {
		filter.Limit = defaultRecentLimit
	}
	if filter.Limit > maxRecentLimit {
		filter.Limit = maxRecentLimit
	}

	projectID, err := parseOptionalProjectID(req.ProjectID)
	if err != nil {
		return domain.ListDonationResponse{}, err
	}
	filter.ProjectID = projectID

	items, err := s.repo.ListRecent(ctx, s.db, filter)
	if err != nil {
		return domain.ListDonationResponse{}, err
	}

	donations := make([]domain.Donation, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		donations = append(donations, *item)
	}
	return domain.ListDonationResponse{Donations: donations}, nil
}

func (s *Service) Stats(ctx context.Context, req domain.StatsRequest) (domain.Stats, error) {
	projectID, err := parseOptionalProjectID(req.ProjectID)
	if err != nil {
		return domain.Stats{}, err
	}

	stats, err := s.repo.Stats(ctx, s.db, projectID)
	if err != nil {
		return domain.Stats{}, err
	}

	if projectID != nil {
		project, err := s.projects.FindByID(ctx, s.db, *projectID)
		if err != nil {
			return domain.Stats{}, err
		}
		if project == nil {
			return domain.Stats{}, projectdomain.ErrNotFound
		}
		progress := domain.GoalProgress{
			CurrentCents: project.CurrentFundingCents,
			TargetCents:  project.GoalCents,
		}
		if progress.TargetCents > 0 {
			progress.Percentage = float64(progress.CurrentCents) / float64(progress.TargetCents) * 100
		}
		stats.GoalProgress = &progress
	}
	return stats, nil
}

func parseOptionalProjectID(raw string) (*snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidProjectID
	}
	return &id, nil
}
