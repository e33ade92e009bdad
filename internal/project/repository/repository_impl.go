package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/hopelink/hopelink/internal/project/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO projects (id, title, description, image_url, goal_cents, current_funding_cents, start_date, end_date, status, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.Title,
		project.Description,
		project.ImageURL,
		project.GoalCents,
		project.CurrentFundingCents,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.Metadata,
		project.CreatedAt,
		project.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Exec(
		`UPDATE projects
		 SET title = ?, description = ?, image_url = ?, goal_cents = ?, start_date = ?, end_date = ?, status = ?, metadata = ?, updated_at = ?
		 WHERE id = ?`,
		project.Title,
		project.Description,
		project.ImageURL,
		project.GoalCents,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.Metadata,
		project.UpdatedAt,
		project.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Project, error) {
	var project domain.Project
	err := db.WithContext(ctx).Raw(
		`SELECT id, title, description, image_url, goal_cents, current_funding_cents, start_date, end_date, status, metadata, created_at, updated_at
		 FROM projects WHERE id = ?`,
		id,
	).Scan(&project).Error
	if err != nil {
		return nil, err
	}
	if project.ID == 0 {
		return nil, nil
	}
	return &project, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Project, error) {
	var projects []*domain.Project
	stmt := db.WithContext(ctx).Model(&domain.Project{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repo) IncrementFunding(ctx context.Context, db *gorm.DB, id snowflake.ID, amountCents int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE projects
		 SET current_funding_cents = current_funding_cents + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		amountCents,
		id,
	).Error
}
