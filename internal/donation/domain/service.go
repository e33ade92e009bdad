package domain

import (
	"context"
	"errors"

	paymentdomain "github.com/hopelink/hopelink/internal/payment/domain"
)

// ConfirmState tells the caller how a confirmation attempt resolved.
type ConfirmState string

const (
	// ConfirmStateCompleted means the donation is recorded, whether by
	// this call or an earlier one.
	ConfirmStateCompleted ConfirmState = "completed"
	// ConfirmStatePending means the session has not been paid yet.
	ConfirmStatePending ConfirmState = "pending"
	// ConfirmStateIgnored means the event carried nothing to record.
	ConfirmStateIgnored ConfirmState = "ignored"
)

type ConfirmRequest struct {
	SessionID string
}

type ConfirmResponse struct {
	State ConfirmState `json:"state"`
	// AlreadyRecorded is true when an earlier confirmation recorded
	// the donation and this call changed nothing.
	AlreadyRecorded bool      `json:"already_recorded"`
	Donation        *Donation `json:"donation,omitempty"`
	// Session is the gateway's view of the checkout session, so a
	// polling client can inspect the payment status while pending.
	Session *paymentdomain.CheckoutSession `json:"session,omitempty"`
}

type ListByUserRequest struct {
	UserID string
}

type ListRecentRequest struct {
	Limit     int
	ProjectID string
}

type StatsRequest struct {
	ProjectID string
}

type ListDonationResponse struct {
	Donations []Donation `json:"donations"`
}

type HistoryResponse struct {
	Donations []UserDonation `json:"donations"`
}

type Service interface {
	// Confirm resolves a checkout session by asking the payment
	// gateway for its current state. It backs the success-page poll.
	Confirm(context.Context, ConfirmRequest) (ConfirmResponse, error)

	// ConfirmFromEvent resolves a signature-verified webhook event
	// without a gateway round-trip.
	ConfirmFromEvent(context.Context, *paymentdomain.CheckoutEvent) (ConfirmResponse, error)

	ListByUser(context.Context, ListByUserRequest) (HistoryResponse, error)
	ListRecent(context.Context, ListRecentRequest) (ListDonationResponse, error)
	Stats(context.Context, StatsRequest) (Stats, error)
}

var (
	ErrInvalidSession   = errors.New("invalid_session")
	ErrInvalidUserID    = errors.New("invalid_user_id")
	ErrInvalidProjectID = errors.New("invalid_project_id")
	// ErrUnconfirmableSession marks a paid session whose metadata
	// cannot be decoded. Nothing is recorded for it.
	ErrUnconfirmableSession = errors.New("unconfirmable_session")
)
