package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/memvault/memory-vault/internal/store"
	"github.com/memvault/memory-vault/internal/store/storetest"
)

// makePGStore provisions a throwaway Postgres container, applies the schema
// from migrations/postgres, and returns a store bound to it. Set
// MEMORY_VAULT_PG_INTEGRATION=1 to enable (requires Docker).
func makePGStore(t *testing.T) store.Store {
	t.Helper()
	if os.Getenv("MEMORY_VAULT_PG_INTEGRATION") == "" {
		t.Skip("MEMORY_VAULT_PG_INTEGRATION not set; skipping postgres store integration test")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "vault",
			"POSTGRES_PASSWORD": "vault",
			"POSTGRES_DB":       "vault_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://vault:vault@%s:%s/vault_test?sslmode=disable", host, port.Port())

	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ddl, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "postgres", "001_init.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}

	return NewWithDB(db)
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
