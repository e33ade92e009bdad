package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status Status
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, project *Project) error
	Update(ctx context.Context, db *gorm.DB, project *Project) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Project, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Project, error)

	// IncrementFunding atomically adds amountCents to the project's
	// running total. Callers run it inside the same transaction that
	// records the donation.
	IncrementFunding(ctx context.Context, db *gorm.DB, id snowflake.ID, amountCents int64) error
}
