package domain

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Gateway creates and retrieves hosted checkout sessions at the payment
// processor.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CreateCheckoutSessionRequest) (CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (CheckoutSession, error)
}

// WebhookVerifier authenticates and decodes inbound webhook deliveries.
type WebhookVerifier interface {
	Verify(ctx context.Context, payload []byte, headers http.Header) error
	Parse(ctx context.Context, payload []byte) (*CheckoutEvent, error)
}

// EventRepository stores verified webhook deliveries.
type EventRepository interface {
	// Insert writes the record unless the provider event id was seen
	// before. It reports whether a row was written.
	Insert(ctx context.Context, db *gorm.DB, record *WebhookEventRecord) (bool, error)
}

var (
	ErrInvalidConfig      = errors.New("invalid_config")
	ErrInvalidSignature   = errors.New("invalid_signature")
	ErrInvalidPayload     = errors.New("invalid_payload")
	ErrInvalidEvent       = errors.New("invalid_event")
	ErrEventIgnored       = errors.New("event_ignored")
	ErrSessionNotFound    = errors.New("session_not_found")
	ErrGatewayUnavailable = errors.New("gateway_unavailable")
)
