package test

import (
	"context"
	"log"
	"path/filepath"
	"testing"
	"time"

	"todoservice/internal/adapter/database"
	"todoservice/internal/config"
)

// InitTestDB opens a private in-memory SQLite database with the schema
// applied. Each call returns an isolated database.
func InitTestDB() *database.DB {
	db, err := database.Open(context.Background(), config.DatabaseConfig{
		Driver: "sqlite",
		Path:   ":memory:",
	})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// SetupTestDB is InitTestDB bound to the lifetime of t.
func SetupTestDB(t *testing.T) *database.DB {
	t.Helper()

	db := InitTestDB()
	t.Cleanup(func() { db.Close() })

	return db
}

// SetupFileTestDB opens a file-backed SQLite database under t.TempDir()
// with a connection pool, so writers really run concurrently.
func SetupFileTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), config.DatabaseConfig{
		Driver:          "sqlite",
		Path:            filepath.Join(t.TempDir(), "todos.db"),
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})

	if err != nil {
		t.Fatalf("Failed to open file database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

func CleanDB(t *testing.T, db *database.DB) {
	t.Helper()

	for _, table := range []string{"todos", "users"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}
