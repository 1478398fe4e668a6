package db

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CreateTestPool connects to TEST_POSTGRESQL_URL and applies migrations from
// TEST_MIGRATIONS_PATH. The test is skipped if the database is not configured.
func CreateTestPool(t *testing.T) *pgxpool.Pool {
	connString := os.Getenv("TEST_POSTGRESQL_URL")
	if connString == "" {
		t.Skip("TEST_POSTGRESQL_URL is not set.")
	}
	migrationsPath := os.Getenv("TEST_MIGRATIONS_PATH")
	if migrationsPath == "" {
		panic("TEST_MIGRATIONS_PATH must be set.")
	}
	if err := ApplyMigrations(migrationsPath, connString); err != nil {
		panic(err)
	}

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		panic("Could not connect to the database.")
	}
	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "TRUNCATE \"user\" RESTART IDENTITY")
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}
