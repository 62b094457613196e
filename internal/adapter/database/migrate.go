package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"todoservice/internal/adapter/database/migrations"
	"todoservice/internal/adapter/database/postgres"
	"todoservice/internal/config"
)

// RunMigrations applies the embedded schema for cfg.Driver.
//
// PostgreSQL migrations run on their own short-lived handle: the migrate
// driver pins a connection until it is closed, and closing it closes the
// handle underneath. SQLite runs on db itself because a private in-memory
// database only exists on that handle; its migrate driver pins nothing.
func RunMigrations(db *sql.DB, cfg config.DatabaseConfig) error {
	switch cfg.Driver {
	case "sqlite":
		instance, err := sqlite3.WithInstance(db, &sqlite3.Config{})

		if err != nil {
			return fmt.Errorf("creating migration driver: %w", err)
		}

		_, err = migrateUp(instance, cfg.Driver)
		return err
	case "postgres":
		migrationDB, err := sql.Open(postgres.DriverName, cfg.URL)

		if err != nil {
			return fmt.Errorf("opening migration connection: %w", err)
		}

		instance, err := migratepg.WithInstance(migrationDB, &migratepg.Config{})

		if err != nil {
			migrationDB.Close()
			return fmt.Errorf("creating migration driver: %w", err)
		}

		m, err := migrateUp(instance, cfg.Driver)

		if m == nil {
			instance.Close()
			return err
		}

		sourceErr, dbErr := m.Close()

		return errors.Join(err, sourceErr, dbErr)
	default:
		return fmt.Errorf("no migrations for driver %q", cfg.Driver)
	}
}

// migrateUp applies every pending migration. The returned instance is nil
// when it could not be built.
func migrateUp(instance migratedb.Driver, driver string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.FS, driver)

	if err != nil {
		return nil, fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)

	if err != nil {
		return nil, fmt.Errorf("creating migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return m, err
	}

	return m, nil
}
