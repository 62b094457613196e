//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	. "todoservice/pkg/test"

	"todoservice/internal/adapter/database"
	"todoservice/internal/config"
)

// startPostgres runs a throwaway PostgreSQL container and returns an opener
// that hands every test an empty schema.
func startPostgres(t *testing.T) func() *database.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "testdb",
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
	}

	container, err := testcontainers.GenericContainer(ctx, req)

	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}

	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432")

	cfg := config.DatabaseConfig{
		Driver:       "postgres",
		URL:          fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port()),
		MaxOpenConns: 5,
	}

	return func() *database.DB {
		db, err := database.Open(ctx, cfg)

		if err != nil {
			t.Fatalf("opening postgres: %v", err)
		}

		CleanDB(t, db)

		return db
	}
}

func TestPostgresRepositories(t *testing.T) {
	RegisterTestingT(t)

	open := startPostgres(t)

	suite.Run(t, &TodoRepositoryTestSuite{OpenDB: open})
	suite.Run(t, &UserRepositoryTestSuite{OpenDB: open})
}

func TestPostgresOpen_ReleasesMigrationConnection(t *testing.T) {
	RegisterTestingT(t)

	db := startPostgres(t)()
	defer db.Close()

	Expect(db.Stats().InUse).To(Equal(0))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// the whole pool stays usable for store calls
	for i := 0; i < 5; i++ {
		conn, err := db.Conn(ctx)
		Expect(err).To(BeNil())
		defer conn.Close()
	}
}
