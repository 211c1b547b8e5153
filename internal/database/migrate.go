package database

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all up migrations to the journal database.
// Migrations are embedded so the deployed binary carries its schema.
func RunMigrations(dbPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	dsn := fmt.Sprintf("sqlite3://file:%s?_foreign_keys=on", dbPath)
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if err == migrate.ErrNoChange {
		return nil
	}
	return err
}
