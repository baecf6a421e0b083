package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/lavanderia-app/lavanderia-backend/internal/config"
)

// Dir returns the migrations directory for the configured driver.
// The two dialects keep separate SQL because the history schema differs
// (postgres normalizes record lines, sqlite stores them as a document).
func Dir(cfg config.Config) string {
	return "migrations/" + cfg.DBDriver
}

// Up runs all pending SQL migrations found in migrationsDir.
func Up(db *sql.DB, driver, migrationsDir string) error {
	dialect := driver
	if driver == config.DriverSQLite {
		dialect = "sqlite3"
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}
