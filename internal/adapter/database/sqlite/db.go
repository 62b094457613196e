package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"

	"todoservice/internal/config"
)

const DriverName = "sqlite3"

// IsMemory reports whether path points to a private in-memory database.
func IsMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// File databases take the write lock when a transaction begins, so
// concurrent writers wait on the busy timeout instead of failing on a
// lock upgrade.
func dsn(path string) string {
	if IsMemory(path) || strings.Contains(path, "?") {
		return path
	}

	return path + "?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_txlock=immediate"
}

// Open returns a traced SQLite handle, optionally wrapped with a query
// logger. Connections are not opened until the first use.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	source := dsn(cfg.Path)

	db, err := otelsql.Open(DriverName, source,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("todoservice"),
	)

	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if cfg.LogQueries {
		logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logged := sqldblogger.OpenDriver(source, db.Driver(), zerologadapter.New(logger),
			sqldblogger.WithSQLQueryAsMessage(true),
		)

		_ = db.Close()
		db = logged
	}

	// Every connection to :memory: is a separate database, so the pool is
	// pinned to a single connection that never expires.
	if IsMemory(cfg.Path) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)

		return db, nil
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}
