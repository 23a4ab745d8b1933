package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"infinite-experiment/router/internal/config"
)

// SQLX wraps the connection pool GORM already owns for hand-written queries.
func SQLX(gdb *gorm.DB, driver string) (*sqlx.DB, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql.DB from gorm: %w", err)
	}

	driverName := "sqlite3"
	if driver == config.DriverPostgres {
		driverName = "pgx"
	}

	return sqlx.NewDb(sqlDB, driverName), nil
}
