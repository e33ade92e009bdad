package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hopelink/hopelink/internal/donation/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (domain.Repository, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error

	statements := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'USER',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE projects (
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
		)`,
		`CREATE TABLE donations (
			id INTEGER PRIMARY KEY,
			project_id INTEGER NOT NULL,
			user_id INTEGER,
			donor_name TEXT NOT NULL DEFAULT '',
			donor_email TEXT NOT NULL DEFAULT '',
			amount_cents INTEGER NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			checkout_session_id TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, statement := range statements {
		require.NoError(t, db.Exec(statement).Error)
	}

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return Provide(), db, node
}

func newDonation(node *snowflake.Node, sessionID string, amountCents int64) *domain.Donation {
	now := time.Now().UTC()
	return &domain.Donation{
		ID:                node.Generate(),
		ProjectID:         node.Generate(),
		DonorName:         "Alice",
		DonorEmail:        "alice@example.com",
		AmountCents:       amountCents,
		Currency:          "usd",
		Status:            domain.StatusCompleted,
		CheckoutSessionID: sessionID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestInsertIsIdempotentPerSession(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()

	first := newDonation(node, "cs_repo_1", 1000)
	inserted, err := repo.Insert(ctx, db, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same session reference, different donation id.
	second := newDonation(node, "cs_repo_1", 1000)
	inserted, err = repo.Insert(ctx, db, second)
	require.NoError(t, err)
	assert.False(t, inserted, "conflicting insert must be a no-op")

	found, err := repo.FindBySessionRef(ctx, db, "cs_repo_1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
}

func TestFindBySessionRefMissing(t *testing.T) {
	repo, db, _ := setupRepo(t)

	found, err := repo.FindBySessionRef(context.Background(), db, "cs_unknown")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestListRecentFiltersAndLimits(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		donation := newDonation(node, fmt.Sprintf("cs_recent_%d", i), 1000)
		donation.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		donation.UpdatedAt = donation.CreatedAt
		inserted, err := repo.Insert(ctx, db, donation)
		require.NoError(t, err)
		require.True(t, inserted)
	}
	pending := newDonation(node, "cs_recent_pending", 1000)
	pending.Status = domain.StatusPending
	inserted, err := repo.Insert(ctx, db, pending)
	require.NoError(t, err)
	require.True(t, inserted)

	items, err := repo.ListRecent(ctx, db, domain.RecentFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "cs_recent_2", items[0].CheckoutSessionID)
	assert.Equal(t, "cs_recent_1", items[1].CheckoutSessionID)
	for _, item := range items {
		assert.Equal(t, domain.StatusCompleted, item.Status)
	}
}

func TestListRecentScopedToProject(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()

	target := newDonation(node, "cs_scope_target", 1000)
	inserted, err := repo.Insert(ctx, db, target)
	require.NoError(t, err)
	require.True(t, inserted)

	other := newDonation(node, "cs_scope_other", 2000)
	inserted, err = repo.Insert(ctx, db, other)
	require.NoError(t, err)
	require.True(t, inserted)

	items, err := repo.ListRecent(ctx, db, domain.RecentFilter{Limit: 10, ProjectID: &target.ProjectID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "cs_scope_target", items[0].CheckoutSessionID)
}

func TestListByUserJoinsProjectTitle(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()

	userID := node.Generate()
	mine := newDonation(node, "cs_mine", 1000)
	mine.UserID = &userID
	require.NoError(t, db.Exec(
		`INSERT INTO projects (id, title, description, goal_cents) VALUES (?, ?, ?, ?)`,
		mine.ProjectID, "School Lunches", "Meals for students.", 1_000_00,
	).Error)
	inserted, err := repo.Insert(ctx, db, mine)
	require.NoError(t, err)
	require.True(t, inserted)

	guest := newDonation(node, "cs_guest", 500)
	inserted, err = repo.Insert(ctx, db, guest)
	require.NoError(t, err)
	require.True(t, inserted)

	items, err := repo.ListByUser(ctx, db, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID, items[0].ID)
	assert.Equal(t, "School Lunches", items[0].ProjectTitle)
	assert.Equal(t, int64(1000), items[0].AmountCents)
}

func TestStatsIgnoresNonCompletedDonations(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()

	completed := newDonation(node, "cs_stats_done", 1500)
	inserted, err := repo.Insert(ctx, db, completed)
	require.NoError(t, err)
	require.True(t, inserted)

	pending := newDonation(node, "cs_stats_pending", 9999)
	pending.Status = domain.StatusPending
	inserted, err = repo.Insert(ctx, db, pending)
	require.NoError(t, err)
	require.True(t, inserted)

	stats, err := repo.Stats(ctx, db, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), stats.TotalRaisedCents)
	assert.Equal(t, int64(1), stats.TotalDonations)
	assert.Equal(t, int64(1), stats.DistinctDonors)
	assert.Equal(t, int64(1), stats.ProjectsFunded)
	assert.Equal(t, int64(1500), stats.AverageDonationCents)
}

func TestStatsScopedToProject(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()

	target := newDonation(node, "cs_stats_scope_1", 1000)
	inserted, err := repo.Insert(ctx, db, target)
	require.NoError(t, err)
	require.True(t, inserted)

	other := newDonation(node, "cs_stats_scope_2", 9000)
	inserted, err = repo.Insert(ctx, db, other)
	require.NoError(t, err)
	require.True(t, inserted)

	stats, err := repo.Stats(ctx, db, &target.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), stats.TotalRaisedCents)
	assert.Equal(t, int64(1), stats.TotalDonations)
	assert.Equal(t, int64(1000), stats.AverageDonationCents)
}

func TestUserExists(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()

	userID := node.Generate()
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)`,
		userID, "Alice", "alice@example.com", "x",
	).Error)

	exists, err := repo.UserExists(ctx, db, userID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UserExists(ctx, db, node.Generate())
	require.NoError(t, err)
	assert.False(t, exists)
}
