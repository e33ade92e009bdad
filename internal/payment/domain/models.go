package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PaymentStatus mirrors the processor's checkout payment_status field.
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// SessionStatus mirrors the processor's checkout session status field.
type SessionStatus string

const (
	SessionStatusOpen     SessionStatus = "open"
	SessionStatusComplete SessionStatus = "complete"
	SessionStatusExpired  SessionStatus = "expired"
)

// CheckoutSession is the provider-neutral view of a hosted checkout
// session. Metadata round-trips the values attached at creation time.
type CheckoutSession struct {
	ID            string
	URL           string
	Status        SessionStatus
	PaymentStatus PaymentStatus
	AmountTotal   int64
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
	CreatedAt     time.Time
}

type CreateCheckoutSessionRequest struct {
	AmountCents   int64
	Currency      string
	ProductName   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutEvent is a verified webhook notification about a checkout
// session.
type CheckoutEvent struct {
	ProviderEventID string
	Type            string
	Session         CheckoutSession
	OccurredAt      time.Time
	RawPayload      []byte
}

const (
	EventTypeCheckoutCompleted = "checkout.session.completed"
	EventTypeCheckoutExpired   = "checkout.session.expired"
)

// WebhookEventRecord is the stored copy of a verified webhook delivery.
// The raw payload is kept verbatim for replay and audit; the provider's
// event id is unique so redeliveries collapse into one row.
type WebhookEventRecord struct {
	ID              snowflake.ID   `gorm:"primaryKey" json:"id"`
	ProviderEventID string         `gorm:"column:provider_event_id;not null;uniqueIndex" json:"provider_event_id"`
	EventType       string         `gorm:"column:event_type;not null" json:"event_type"`
	SessionID       string         `gorm:"column:session_id" json:"session_id"`
	Payload         datatypes.JSON `gorm:"not null" json:"payload"`
	ReceivedAt      time.Time      `gorm:"column:received_at;not null" json:"received_at"`
}

func (WebhookEventRecord) TableName() string { return "webhook_events" }
