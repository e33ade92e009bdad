package repository

import (
	"context"

	"github.com/hopelink/hopelink/internal/contact/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, message *domain.ContactMessage) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO contact_messages (id, name, email, organization, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		message.ID,
		message.Name,
		message.Email,
		message.Organization,
		message.Message,
		message.CreatedAt,
	).Error
}
