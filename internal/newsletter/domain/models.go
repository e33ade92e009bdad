package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Subscriber struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"not null;uniqueIndex" json:"email"`
	SubscribedAt time.Time    `gorm:"column:subscribed_at;not null" json:"subscribed_at"`
}

func (Subscriber) TableName() string {
	return "newsletter_subscribers"
}

type SubscribeRequest struct {
	Email string
}

type SubscribeResponse struct {
	Subscriber Subscriber `json:"subscriber"`
	// AlreadySubscribed is true when the address was on the list
	// before this call.
	AlreadySubscribed bool `json:"already_subscribed"`
}

type Repository interface {
	// Insert adds the subscriber unless the address is already on the
	// list. It reports whether a row was written.
	Insert(ctx context.Context, db *gorm.DB, subscriber *Subscriber) (bool, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Subscriber, error)
}

type Service interface {
	Subscribe(context.Context, SubscribeRequest) (SubscribeResponse, error)
}

var ErrInvalidEmail = errors.New("invalid_email")
