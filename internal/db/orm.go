package db

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"infinite-experiment/router/internal/config"
	models "infinite-experiment/router/internal/models/gorm"
)

const dataFolderPermissions = os.FileMode(0o755)

// Open connects GORM to the configured driver and runs migrations.
func Open(driver string, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case config.DriverSQLite:
		if dsn != ":memory:" && !isURI(dsn) {
			if err := os.MkdirAll(filepath.Dir(dsn), dataFolderPermissions); err != nil {
				return nil, fmt.Errorf("error creating data folder: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Migrate creates or updates the schema.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&models.Route{}); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}
	return nil
}

func isURI(dsn string) bool {
	return len(dsn) > 5 && dsn[:5] == "file:"
}
