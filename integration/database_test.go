//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// exerciseStore runs the full store lifecycle against a server backend configured via env.
func exerciseStore(t *testing.T, backend, connStr string) {
	dir := t.TempDir()
	fixture := writeFixture(t, dir)
	env := []string{
		"STEWARD_STORE_BACKEND=" + backend,
		"STEWARD_STORE_DB_CONNECT=" + connStr,
	}

	_, err := runSteward(t, dir, env, "store", "clear")
	require.NoError(t, err)

	_, err = runSteward(t, dir, env, "store", "migrate")
	require.NoError(t, err)

	_, err = runSteward(t, dir, env, "compare", "acme/widget", "acme/missing", "--source", "file", "--source-path", fixture)
	require.NoError(t, err)

	_, err = runSteward(t, dir, env, "analyze", "acme/widget", "--source", "file", "--source-path", fixture, "--sentiment")
	require.NoError(t, err)

	out, err := runSteward(t, dir, env, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Analysis Backend: "+backend)
	assert.Contains(t, out, "Total Runs: 2")

	_, err = runSteward(t, dir, env, "store", "export", "--output-file", dir+"/export")
	require.NoError(t, err)

	_, err = runSteward(t, dir, env, "store", "migrate", "--target-version", "0")
	require.NoError(t, err)

	_, err = runSteward(t, dir, env, "store", "clear")
	require.NoError(t, err)
}

// TestStewardWithMySQL tests the steward CLI with a MySQL backend.
func TestStewardWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "steward",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/steward?parseTime=true&multiStatements=true", host, port.Port())
	exerciseStore(t, "mysql", connStr)
}

// TestStewardWithPostgres tests the steward CLI with a PostgreSQL backend.
func TestStewardWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseStore(t, "postgresql", connStr)
}
