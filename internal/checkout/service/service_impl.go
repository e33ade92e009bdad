package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/hopelink/hopelink/internal/checkout/domain"
	"github.com/hopelink/hopelink/internal/config"
	"github.com/hopelink/hopelink/internal/observability/metrics"
	paymentdomain "github.com/hopelink/hopelink/internal/payment/domain"
	projectdomain "github.com/hopelink/hopelink/internal/project/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Donations below one dollar are rejected before reaching the
// processor.
const minAmountCents = 100

type Params struct {
	fx.In

	Config   config.Config
	Log      *zap.Logger
	Gateway  paymentdomain.Gateway
	Projects projectdomain.Service
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	cfg      config.Config
	log      *zap.Logger
	gateway  paymentdomain.Gateway
	projects projectdomain.Service
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		cfg:      p.Config,
		log:      p.Log.Named("checkout.service"),
		gateway:  p.Gateway,
		projects: p.Projects,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCheckoutRequest) (domain.CreateCheckoutResponse, error) {
	if req.AmountCents < minAmountCents {
		return domain.CreateCheckoutResponse{}, domain.ErrAmountBelowMin
	}

	donorName := strings.TrimSpace(req.DonorName)
	if donorName == "" {
		return domain.CreateCheckoutResponse{}, domain.ErrInvalidDonorName
	}

	donorEmail := strings.ToLower(strings.TrimSpace(req.DonorEmail))
	if donorEmail == "" || !strings.Contains(donorEmail, "@") {
		return domain.CreateCheckoutResponse{}, domain.ErrInvalidDonorEmail
	}

	project, err := s.projects.GetByID(ctx, projectdomain.GetProjectRequest{ID: req.ProjectID})
	if err != nil {
		switch err {
		case projectdomain.ErrInvalidID:
			return domain.CreateCheckoutResponse{}, domain.ErrInvalidProject
		case projectdomain.ErrNotFound:
			return domain.CreateCheckoutResponse{}, domain.ErrProjectNotFound
		default:
			return domain.CreateCheckoutResponse{}, err
		}
	}
	if project.Status != projectdomain.StatusActive {
		return domain.CreateCheckoutResponse{}, domain.ErrProjectNotActive
	}

	intent := domain.DonationIntent{
		ProjectID:   project.ID,
		DonorName:   donorName,
		DonorEmail:  donorEmail,
		AmountCents: req.AmountCents,
	}
	if raw := strings.TrimSpace(req.UserID); raw != "" {
		userID, err := snowflake.ParseString(raw)
		if err == nil && userID != 0 {
			intent.UserID = &userID
		}
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, paymentdomain.CreateCheckoutSessionRequest{
		AmountCents:   req.AmountCents,
		Currency:      s.cfg.DonationCurrency,
		ProductName:   "Donation to " + project.Title,
		CustomerEmail: donorEmail,
		SuccessURL:    s.cfg.PublicBaseURL + "/donate/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.cfg.PublicBaseURL + "/projects/" + project.ID.String(),
		Metadata:      domain.EncodeMetadata(intent),
	})
	if err != nil {
		return domain.CreateCheckoutResponse{}, err
	}

	s.metrics.RecordCheckoutSession(ctx)
	s.log.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.String("project_id", project.ID.String()),
		zap.Int64("amount_cents", req.AmountCents),
	)

	return domain.CreateCheckoutResponse{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}
