package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"

	"todoservice/internal/adapter/database/postgres"
	"todoservice/internal/adapter/database/sqlite"
	"todoservice/internal/config"
)

// DB is the process-wide store handle. It is created once at startup,
// injected into repositories and closed on shutdown.
type DB struct {
	*sqlx.DB
	QueryBuilder squirrel.StatementBuilderType
	Driver       string
	closers      []func()
}

// Open connects to the configured driver and applies pending migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	var (
		sqlDB   *sql.DB
		closers []func()
		builder squirrel.StatementBuilderType
		name    string
		err     error
	)

	switch cfg.Driver {
	case "sqlite":
		sqlDB, err = sqlite.Open(cfg)
		builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
		name = sqlite.DriverName
	case "postgres":
		var closePool func()
		sqlDB, closePool, err = openPostgres(ctx, cfg)
		closers = append(closers, closePool)
		builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
		name = postgres.DriverName
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		runClosers(closers)
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Driver, err)
	}

	if err := RunMigrations(sqlDB, cfg); err != nil {
		sqlDB.Close()
		runClosers(closers)
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	otelsql.ReportDBStatsMetrics(sqlDB)

	return &DB{
		DB:           sqlx.NewDb(sqlDB, name),
		QueryBuilder: builder,
		Driver:       cfg.Driver,
		closers:      closers,
	}, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, func(), error) {
	sqlDB, pool, err := postgres.Open(ctx, cfg)

	if err != nil {
		return nil, nil, err
	}

	return sqlDB, pool.Close, nil
}

func (db *DB) Close() error {
	err := db.DB.Close()
	runClosers(db.closers)

	return err
}

func runClosers(closers []func()) {
	for _, closer := range closers {
		if closer != nil {
			closer()
		}
	}
}
