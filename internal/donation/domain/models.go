package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Donation is one recorded contribution. CheckoutSessionID carries the
// processor's session reference and is unique, which makes recording a
// donation idempotent across the success-page poll and the webhook.
type Donation struct {
	ID                snowflake.ID  `gorm:"primaryKey" json:"id"`
	ProjectID         snowflake.ID  `gorm:"not null;index" json:"project_id"`
	UserID            *snowflake.ID `gorm:"index" json:"user_id,omitempty"`
	DonorName         string        `gorm:"column:donor_name" json:"donor_name,omitempty"`
	DonorEmail        string        `gorm:"column:donor_email" json:"donor_email,omitempty"`
	AmountCents       int64         `gorm:"column:amount_cents;not null" json:"amount_cents"`
	Currency          string        `gorm:"not null" json:"currency"`
	Status            Status        `gorm:"not null;default:PENDING" json:"status"`
	CheckoutSessionID string        `gorm:"column:checkout_session_id;not null;uniqueIndex" json:"checkout_session_id"`
	CreatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// UserDonation is a donation joined with the campaign it funded, the
// shape the donor-facing history listing wants.
type UserDonation struct {
	ID           snowflake.ID `json:"id"`
	ProjectID    snowflake.ID `gorm:"column:project_id" json:"project_id"`
	ProjectTitle string       `gorm:"column:project_title" json:"project_title"`
	AmountCents  int64        `gorm:"column:amount_cents" json:"amount_cents"`
	Currency     string       `json:"currency"`
	Status       Status       `json:"status"`
	CreatedAt    time.Time    `gorm:"column:created_at" json:"created_at"`
}

// Stats aggregates completed donations, platform-wide or scoped to a
// single project.
type Stats struct {
	TotalRaisedCents     int64         `json:"total_raised_cents"`
	TotalDonations       int64         `json:"total_donations"`
	DistinctDonors       int64         `json:"distinct_donors"`
	ProjectsFunded       int64         `json:"projects_funded"`
	AverageDonationCents int64         `json:"average_donation_cents"`
	GoalProgress         *GoalProgress `gorm:"-" json:"goal_progress,omitempty"`
}

// GoalProgress reports how far a single project is toward its funding
// goal. Only present when stats are scoped to one project.
type GoalProgress struct {
	CurrentCents int64   `json:"current_cents"`
	TargetCents  int64   `json:"target_cents"`
	Percentage   float64 `json:"percentage"`
}
