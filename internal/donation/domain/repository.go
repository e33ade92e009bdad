package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// RecentFilter narrows the recent-donations listing. A nil ProjectID
// means platform-wide.
type RecentFilter struct {
	ProjectID *snowflake.ID
	Limit     int
}

type Repository interface {
	// Insert records the donation unless one already exists for the
	// same checkout session. It reports whether a row was written.
	Insert(ctx context.Context, db *gorm.DB, donation *Donation) (bool, error)

	FindBySessionRef(ctx context.Context, db *gorm.DB, checkoutSessionID string) (*Donation, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*UserDonation, error)
	ListRecent(ctx context.Context, db *gorm.DB, filter RecentFilter) ([]*Donation, error)

	// Stats aggregates completed donations, optionally scoped to one
	// project.
	Stats(ctx context.Context, db *gorm.DB, projectID *snowflake.ID) (Stats, error)

	// UserExists reports whether the referenced user row is present,
	// used to validate user references arriving in session metadata.
	UserExists(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
