package seed

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/hopelink/hopelink/internal/auth/domain"
	"github.com/hopelink/hopelink/internal/auth/password"
	"github.com/hopelink/hopelink/internal/config"
	projectdomain "github.com/hopelink/hopelink/internal/project/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run makes a fresh database usable out of the box: an admin account
// and a handful of sample projects. It is idempotent and safe to run
// on every startup.
func Run(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
	node, err := snowflake.NewNode(0)
	if err != nil {
		return err
	}

	if err := ensureAdmin(conn, cfg, node, log); err != nil {
		return err
	}
	return ensureSampleProjects(conn, node, log)
}

func ensureAdmin(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" {
		return nil
	}

	var existing authdomain.User
	if err := conn.Raw(`SELECT id, role FROM users WHERE email = ?`, email).Scan(&existing).Error; err != nil {
		return err
	}
	if existing.ID != 0 {
		if existing.Role != authdomain.RoleAdmin {
			if err := conn.Exec(`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
				authdomain.RoleAdmin, time.Now().UTC(), existing.ID).Error; err != nil {
				return err
			}
			log.Info("promoted existing user to admin", zap.String("email", email))
		}
		return nil
	}

	secret := cfg.SeedAdminPassword
	if secret == "" {
		log.Warn("seed admin password not set, skipping admin creation", zap.String("email", email))
		return nil
	}

	hash, err := password.Hash(secret)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	err = conn.Exec(
		`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		node.Generate(), "Admin User", email, hash, authdomain.RoleAdmin, now, now,
	).Error
	if err != nil {
		return err
	}

	log.Info("created admin user", zap.String("email", email))
	return nil
}

func ensureSampleProjects(conn *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
	var count int64
	if err := conn.Raw(`SELECT COUNT(1) FROM projects`).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []projectdomain.Project{
		{
			Title:               "Clean Water Initiative",
			Description:         "Providing clean drinking water to underserved communities in rural areas.",
			GoalCents:           50_000_00,
			CurrentFundingCents: 12_500_00,
		},
		{
			Title:               "Education for All",
			Description:         "Building schools and providing educational resources to children in need.",
			GoalCents:           75_000_00,
			CurrentFundingCents: 23_000_00,
		},
		{
			Title:               "Emergency Food Relief",
			Description:         "Distributing food packages to families facing food insecurity.",
			GoalCents:           25_000_00,
			CurrentFundingCents: 18_750_00,
		},
		{
			Title:               "Medical Supply Drive",
			Description:         "Collecting and distributing essential medical supplies to health clinics.",
			GoalCents:           40_000_00,
			CurrentFundingCents: 5_200_00,
		},
	}

	now := time.Now().UTC()
	for _, sample := range samples {
		err := conn.Exec(
			`INSERT INTO projects (id, title, description, image_url, goal_cents, current_funding_cents, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			node.Generate(), sample.Title, sample.Description, "",
			sample.GoalCents, sample.CurrentFundingCents,
			projectdomain.StatusActive, now, now,
		).Error
		if err != nil {
			return err
		}
	}

	log.Info("created sample projects", zap.Int("count", len(samples)))
	return nil
}
