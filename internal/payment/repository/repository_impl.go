package repository

import (
	"context"

	"github.com/hopelink/hopelink/internal/payment/domain"
	"gorm.io/gorm"
)

type eventRepo struct{}

func Provide() domain.EventRepository {
	return &eventRepo{}
}

func (r *eventRepo) Insert(ctx context.Context, db *gorm.DB, record *domain.WebhookEventRecord) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO webhook_events (id, provider_event_id, event_type, session_id, payload, received_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (provider_event_id) DO NOTHING`,
		record.ID,
		record.ProviderEventID,
		record.EventType,
		record.SessionID,
		record.Payload,
		record.ReceivedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
