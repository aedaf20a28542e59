package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all up migrations to the database at dbPath. An empty
// migrationsPath uses the migrations compiled into the binary; otherwise the
// directory is read from disk.
func RunMigrations(dbPath, migrationsPath string) error {
	db, err := Open(dbPath)
	if err != nil {
		return fmt.Errorf("open for migrate: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate driver: %w", err)
	}

	var m *migrate.Migrate
	if migrationsPath == "" {
		var src source.Driver
		src, err = iofs.New(migrationsFS, "migrations")
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("embedded migrations: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	} else {
		m, err = migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsPath), "sqlite3", driver)
	}
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate init: %w", err)
	}
	// closes db as well
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
