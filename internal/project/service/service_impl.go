package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hopelink/hopelink/internal/clock"
	"github.com/hopelink/hopelink/internal/project/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("project.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProjectRequest) (domain.Project, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Project{}, domain.ErrInvalidTitle
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.Project{}, domain.ErrInvalidDescription
	}

	if req.GoalCents <= 0 {
		return domain.Project{}, domain.ErrInvalidGoal
	}

	if !validSchedule(req.StartDate, req.EndDate) {
		return domain.Project{}, domain.ErrInvalidSchedule
	}

	now := s.clock.Now()
	project := domain.Project{
		ID:          s.genID.Generate(),
		Title:       title,
		Description: description,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		GoalCents:   req.GoalCents,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      domain.StatusActive,
		Metadata:    normalizeMap(req.Metadata),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &project); err != nil {
		return domain.Project{}, err
	}

	return project, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProjectRequest) (domain.Project, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Project{}, err
	}

	project, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Project{}, err
	}
	if project == nil {
		return domain.Project{}, domain.ErrNotFound
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return domain.Project{}, domain.ErrInvalidTitle
		}
		project.Title = title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return domain.Project{}, domain.ErrInvalidDescription
		}
		project.Description = description
	}
	if req.ImageURL != nil {
		project.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.GoalCents != nil {
		if *req.GoalCents <= 0 {
			return domain.Project{}, domain.ErrInvalidGoal
		}
		project.GoalCents = *req.GoalCents
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if !validSchedule(project.StartDate, project.EndDate) {
		return domain.Project{}, domain.ErrInvalidSchedule
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			return domain.Project{}, domain.ErrInvalidStatus
		}
		project.Status = *req.Status
	}
	if req.Metadata != nil {
		project.Metadata = normalizeMap(req.Metadata)
	}

	project.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, project); err != nil {
		return domain.Project{}, err
	}

	return *project, nil
}

func (s *Service) Archive(ctx context.Context, id string) (domain.Project, error) {
	status := domain.StatusArchived
	return s.Update(ctx, domain.UpdateProjectRequest{ID: id, Status: &status})
}

func (s *Service) List(ctx context.Context, req domain.ListProjectRequest) (domain.ListProjectResponse, error) {
	if req.Status != "" && !validStatus(req.Status) {
		return domain.ListProjectResponse{}, domain.ErrInvalidStatus
	}

	items, err := s.repo.List(ctx, s.db, domain.ListFilter{Status: req.Status})
	if err != nil {
		return domain.ListProjectResponse{}, err
	}

	projects := make([]domain.Project, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		projects = append(projects, *item)
	}

	return domain.ListProjectResponse{Projects: projects}, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetProjectRequest) (domain.Project, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Project{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Project{}, err
	}
	if item == nil {
		return domain.Project{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func normalizeMap(input map[string]any) datatypes.JSONMap {
	if input == nil {
		return datatypes.JSONMap{}
	}
	output := datatypes.JSONMap{}
	for key, value := range input {
		output[key] = value
	}
	return output
}

func validSchedule(start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return !end.Before(*start)
}

func validStatus(status domain.Status) bool {
	switch status {
	case domain.StatusActive, domain.StatusCompleted, domain.StatusArchived:
		return true
	default:
		return false
	}
}
