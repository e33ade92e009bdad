package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ContactMessage struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	Email        string       `gorm:"not null" json:"email"`
	Organization string       `json:"organization,omitempty"`
	Message      string       `gorm:"not null" json:"message"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

type SubmitRequest struct {
	Name         string
	Email        string
	Organization string
	Message      string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, message *ContactMessage) error
}

type Service interface {
	Submit(context.Context, SubmitRequest) (ContactMessage, error)
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidMessage = errors.New("invalid_message")
)
