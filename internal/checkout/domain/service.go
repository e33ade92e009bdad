package domain

import (
	"context"
	"errors"
)

type CreateCheckoutRequest struct {
	ProjectID  string
	UserID     string
	DonorName  string
	DonorEmail string
	// AmountCents is the donation amount in integer cents.
	AmountCents int64
}

type CreateCheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

type Service interface {
	Create(context.Context, CreateCheckoutRequest) (CreateCheckoutResponse, error)
}

var (
	ErrInvalidProject    = errors.New("invalid_project")
	ErrProjectNotFound   = errors.New("project_not_found")
	ErrProjectNotActive  = errors.New("project_not_active")
	ErrAmountBelowMin    = errors.New("amount_below_minimum")
	ErrInvalidDonorName  = errors.New("invalid_donor_name")
	ErrInvalidDonorEmail = errors.New("invalid_donor_email")
)
