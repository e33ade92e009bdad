package repository

import (
	"context"

	"github.com/hopelink/hopelink/internal/newsletter/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, subscriber *domain.Subscriber) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO newsletter_subscribers (id, email, subscribed_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (email) DO NOTHING`,
		subscriber.ID,
		subscriber.Email,
		subscriber.SubscribedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Subscriber, error) {
	var subscriber domain.Subscriber
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, subscribed_at FROM newsletter_subscribers WHERE email = ?`,
		email,
	).Scan(&subscriber).Error
	if err != nil {
		return nil, err
	}
	if subscriber.ID == 0 {
		return nil, nil
	}
	return &subscriber, nil
}
