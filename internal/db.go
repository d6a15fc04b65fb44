package internal

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqlite3DBPath    = "files/applyflow.db"
	dbMigrationsPath = "file://files/migrations"
)

// NewDB opens the local snapshot database and brings its schema up to
// date.
func NewDB() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", sqlite3DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}
	migration, err := migrate.NewWithDatabaseInstance(dbMigrationsPath, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate: %w", err)
	}
	if err := migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}
