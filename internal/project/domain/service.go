package domain

import (
	"context"
	"errors"
	"time"
)

type CreateProjectRequest struct {
	Title       string
	Description string
	ImageURL    string
	GoalCents   int64
	StartDate   *time.Time
	EndDate     *time.Time
	Metadata    map[string]any
}

type UpdateProjectRequest struct {
	ID          string
	Title       *string
	Description *string
	ImageURL    *string
	GoalCents   *int64
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *Status
	Metadata    map[string]any
}

type ListProjectRequest struct {
	Status Status
}

type GetProjectRequest struct {
	ID string
}

type ListProjectResponse struct {
	Projects []Project `json:"projects"`
}

type Service interface {
	Create(context.Context, CreateProjectRequest) (Project, error)
	Update(context.Context, UpdateProjectRequest) (Project, error)
	Archive(ctx context.Context, id string) (Project, error)
	List(context.Context, ListProjectRequest) (ListProjectResponse, error)
	GetByID(context.Context, GetProjectRequest) (Project, error)
}

var (
	ErrInvalidTitle       = errors.New("invalid_title")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidGoal        = errors.New("invalid_goal")
	ErrInvalidSchedule    = errors.New("invalid_schedule")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
)
