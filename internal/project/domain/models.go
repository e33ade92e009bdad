package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusArchived  Status = "ARCHIVED"
)

// Project is a fundraising campaign. Monetary amounts are stored as
// integer cents to keep funding arithmetic exact.
type Project struct {
	ID                  snowflake.ID      `gorm:"primaryKey" json:"id"`
	Title               string            `gorm:"not null" json:"title"`
	Description         string            `gorm:"not null" json:"description"`
	ImageURL            string            `gorm:"column:image_url" json:"image_url,omitempty"`
	GoalCents           int64             `gorm:"column:goal_cents;not null" json:"goal_cents"`
	CurrentFundingCents int64             `gorm:"column:current_funding_cents;not null" json:"current_funding_cents"`
	StartDate           *time.Time        `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate             *time.Time        `gorm:"column:end_date" json:"end_date,omitempty"`
	Status              Status            `gorm:"not null;default:ACTIVE" json:"status"`
	Metadata            datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt           time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
