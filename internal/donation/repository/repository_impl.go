package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/hopelink/hopelink/internal/donation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, donation *domain.Donation) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO donations (id, project_id, user_id, donor_name, donor_email, amount_cents, currency, status, checkout_session_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (checkout_session_id) DO NOTHING`,
		donation.ID,
		donation.ProjectID,
		donation.UserID,
		donation.DonorName,
		donation.DonorEmail,
		donation.AmountCents,
		donation.Currency,
		donation.Status,
		donation.CheckoutSessionID,
		donation.CreatedAt,
		donation.UpdatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindBySessionRef(ctx context.Context, db *gorm.DB, checkoutSessionID string) (*domain.Donation, error) {
	var donation domain.Donation
	err := db.WithContext(ctx).Raw(
		`SELECT id, project_id, user_id, donor_name, donor_email, amount_cents, currency, status, checkout_session_id, created_at, updated_at
		 FROM donations WHERE checkout_session_id = ?`,
		checkoutSessionID,
	).Scan(&donation).Error
	if err != nil {
		return nil, err
	}
	if donation.ID == 0 {
		return nil, nil
	}
	return &donation, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.UserDonation, error) {
	var donations []*domain.UserDonation
	err := db.WithContext(ctx).Raw(
		`SELECT d.id, d.project_id, COALESCE(p.title, '') AS project_title, d.amount_cents, d.currency, d.status, d.created_at
		 FROM donations d
		 LEFT JOIN projects p ON p.id = d.project_id
		 WHERE d.user_id = ?
		 ORDER BY d.created_at DESC, d.id DESC`,
		userID,
	).Scan(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *repo) ListRecent(ctx context.Context, db *gorm.DB, filter domain.RecentFilter) ([]*domain.Donation, error) {
	query := db.WithContext(ctx).
		Model(&domain.Donation{}).
		Where("status = ?", domain.StatusCompleted)
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	var donations []*domain.Donation
	err := query.
		Order("created_at desc, id desc").
		Limit(filter.Limit).
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, projectID *snowflake.ID) (domain.Stats, error) {
	query := `SELECT
	    COALESCE(SUM(amount_cents), 0) AS total_raised_cents,
	    COUNT(*) AS total_donations,
	    COUNT(DISTINCT COALESCE(CAST(user_id AS TEXT), donor_email)) AS distinct_donors,
	    COUNT(DISTINCT project_id) AS projects_funded
	 FROM donations WHERE status = ?`
	args := []any{domain.StatusCompleted}
	if projectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *projectID)
	}

	var stats domain.Stats
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&stats).Error; err != nil {
		return domain.Stats{}, err
	}
	if stats.TotalDonations > 0 {
		stats.AverageDonationCents = stats.TotalRaisedCents / stats.TotalDonations
	}
	return stats, nil
}

func (r *repo) UserExists(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM users WHERE id = ?`,
		id,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
