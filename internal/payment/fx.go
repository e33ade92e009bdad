package payment

import (
	"github.com/hopelink/hopelink/internal/config"
	"github.com/hopelink/hopelink/internal/payment/domain"
	"github.com/hopelink/hopelink/internal/payment/repository"
	"github.com/hopelink/hopelink/internal/payment/stripe"
	"go.uber.org/fx"
)

var Module = fx.Module("payment",
	fx.Provide(func(cfg config.Config) *stripe.Client {
		return stripe.NewClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	}),
	fx.Provide(func(client *stripe.Client) domain.Gateway { return client }),
	fx.Provide(func(client *stripe.Client) domain.WebhookVerifier { return client }),
	fx.Provide(repository.Provide),
)
