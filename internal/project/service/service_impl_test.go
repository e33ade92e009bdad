package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hopelink/hopelink/internal/clock"
	"github.com/hopelink/hopelink/internal/project/domain"
	projectrepo "github.com/hopelink/hopelink/internal/project/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProjectService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error

	schema := `CREATE TABLE projects (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		goal_cents INTEGER NOT NULL,
		current_funding_cents INTEGER NOT NULL DEFAULT 0,
		start_date DATETIME,
		end_date DATETIME,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		metadata TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if err := db.Exec(schema).Error; err != nil {
		t.Fatalf("prepare schema: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  projectrepo.Provide(),
	})
}

func TestCreateAndGetProject(t *testing.T) {
	service := setupProjectService(t)

	created, err := service.Create(context.Background(), domain.CreateProjectRequest{
		Title:       "Clean Water Initiative",
		Description: "Water for everyone.",
		GoalCents:   50_000_00,
		Metadata:    map[string]any{"category": "water"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != domain.StatusActive {
		t.Fatalf("expected ACTIVE, got %s", created.Status)
	}
	if created.CurrentFundingCents != 0 {
		t.Fatalf("expected zero funding, got %d", created.CurrentFundingCents)
	}

	got, err := service.GetByID(context.Background(), domain.GetProjectRequest{ID: created.ID.String()})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Clean Water Initiative" || got.GoalCents != 50_000_00 {
		t.Fatalf("unexpected project %+v", got)
	}
	if got.Metadata["category"] != "water" {
		t.Fatalf("unexpected metadata %v", got.Metadata)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	service := setupProjectService(t)

	cases := []struct {
		name string
		req  domain.CreateProjectRequest
		want error
	}{
		{"blank title", domain.CreateProjectRequest{Title: " ", Description: "d", GoalCents: 100}, domain.ErrInvalidTitle},
		{"blank description", domain.CreateProjectRequest{Title: "t", Description: "", GoalCents: 100}, domain.ErrInvalidDescription},
		{"zero goal", domain.CreateProjectRequest{Title: "t", Description: "d", GoalCents: 0}, domain.ErrInvalidGoal},
		{"negative goal", domain.CreateProjectRequest{Title: "t", Description: "d", GoalCents: -5}, domain.ErrInvalidGoal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUpdateProjectAppliesPartialChanges(t *testing.T) {
	service := setupProjectService(t)

	created, err := service.Create(context.Background(), domain.CreateProjectRequest{
		Title:       "Old Title",
		Description: "Old description.",
		GoalCents:   1000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newTitle := "New Title"
	newGoal := int64(2000)
	updated, err := service.Update(context.Background(), domain.UpdateProjectRequest{
		ID:        created.ID.String(),
		Title:     &newTitle,
		GoalCents: &newGoal,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "New Title" || updated.GoalCents != 2000 {
		t.Fatalf("unexpected project %+v", updated)
	}
	if updated.Description != "Old description." {
		t.Fatalf("untouched field changed: %q", updated.Description)
	}
}

func TestCreateProjectWithSchedule(t *testing.T) {
	service := setupProjectService(t)

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	created, err := service.Create(context.Background(), domain.CreateProjectRequest{
		Title:       "Winter Appeal",
		Description: "d",
		GoalCents:   1000,
		StartDate:   &start,
		EndDate:     &end,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.StartDate == nil || !created.StartDate.Equal(start) {
		t.Fatalf("unexpected start date %v", created.StartDate)
	}
	if created.EndDate == nil || !created.EndDate.Equal(end) {
		t.Fatalf("unexpected end date %v", created.EndDate)
	}

	got, err := service.GetByID(context.Background(), domain.GetProjectRequest{ID: created.ID.String()})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StartDate == nil || got.EndDate == nil {
		t.Fatalf("expected schedule persisted, got %+v", got)
	}

	// End before start is rejected.
	_, err = service.Create(context.Background(), domain.CreateProjectRequest{
		Title:       "Backwards",
		Description: "d",
		GoalCents:   1000,
		StartDate:   &end,
		EndDate:     &start,
	})
	if !errors.Is(err, domain.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
}

func TestUpdateProjectRejectsBadStatus(t *testing.T) {
	service := setupProjectService(t)

	created, err := service.Create(context.Background(), domain.CreateProjectRequest{
		Title:       "t",
		Description: "d",
		GoalCents:   1000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := domain.Status("PAUSED")
	_, err = service.Update(context.Background(), domain.UpdateProjectRequest{
		ID:     created.ID.String(),
		Status: &bad,
	})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestArchiveProject(t *testing.T) {
	service := setupProjectService(t)

	created, err := service.Create(context.Background(), domain.CreateProjectRequest{
		Title:       "t",
		Description: "d",
		GoalCents:   1000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	archived, err := service.Archive(context.Background(), created.ID.String())
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status != domain.StatusArchived {
		t.Fatalf("expected ARCHIVED, got %s", archived.Status)
	}
}

func TestListProjectsFiltersByStatus(t *testing.T) {
	service := setupProjectService(t)

	first, err := service.Create(context.Background(), domain.CreateProjectRequest{
		Title: "Active project", Description: "d", GoalCents: 1000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := service.Create(context.Background(), domain.CreateProjectRequest{
		Title: "Soon archived", Description: "d", GoalCents: 1000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Archive(context.Background(), second.ID.String()); err != nil {
		t.Fatalf("archive: %v", err)
	}

	active, err := service.List(context.Background(), domain.ListProjectRequest{Status: domain.StatusActive})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active.Projects) != 1 || active.Projects[0].ID != first.ID {
		t.Fatalf("unexpected active projects %+v", active.Projects)
	}

	all, err := service.List(context.Background(), domain.ListProjectRequest{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all.Projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(all.Projects))
	}
}

func TestGetProjectErrors(t *testing.T) {
	service := setupProjectService(t)

	_, err := service.GetByID(context.Background(), domain.GetProjectRequest{ID: "not-an-id"})
	if !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	node, _ := snowflake.NewNode(2)
	_, err = service.GetByID(context.Background(), domain.GetProjectRequest{ID: node.Generate().String()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
