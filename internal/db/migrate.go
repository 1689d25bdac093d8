package db

import (
	"fmt"
	"time"

	"github.com/diewo77/go-facturation/internal/config"
	"github.com/diewo77/go-facturation/internal/logging"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the snapshot database selected by cfg.Driver. Postgres connections are
// retried a few times to give the server time to start.
func Connect(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return db, nil
	case "postgres":
		return connectPostgres(cfg.DSN(), logging.OrNop(logger), 5, 2*time.Second)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func connectPostgres(dsn string, logger *zap.Logger, attempts int, wait time.Duration) (*gorm.DB, error) {
	var db *gorm.DB
	var err error
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			return db, nil
		}
		logger.Warn("database connection failed, retrying",
			zap.Int("attempt", i+1),
			zap.Int("attempts", attempts),
			zap.Error(err))
		time.Sleep(wait)
	}
	return nil, fmt.Errorf("connect postgres: %w", err)
}

// Migrate creates or updates the tables used by the snapshot store.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SnapshotRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
