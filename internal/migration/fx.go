package migration

import (
	"strings"

	"github.com/hopelink/hopelink/internal/config"
	"github.com/hopelink/hopelink/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if strings.ToLower(strings.TrimSpace(cfg.DBType)) == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			log.Warn("skipping schema migrations for non-postgres database",
				zap.String("database_type", cfg.DBType))
		}

		if !cfg.SeedEnabled {
			return nil
		}
		return seed.Run(conn, cfg, log)
	}),
)
