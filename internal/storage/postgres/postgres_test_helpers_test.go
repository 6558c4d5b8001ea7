package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// testDB is one postgres container shared by every test in the package.
var testDB struct {
	once sync.Once
	err  error
	pool *pgxpool.Pool
	url  string
}

func TestMain(m *testing.M) {
	code := m.Run()
	if testDB.pool != nil {
		testDB.pool.Close()
	}
	os.Exit(code)
}

// setupPostgres returns a migrated database with empty venues and events
// tables. It is skipped under -short.
func setupPostgres(t *testing.T) (*pgxpool.Pool, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	testDB.once.Do(startTestDB)
	require.NoError(t, testDB.err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err := testDB.pool.Exec(ctx, `TRUNCATE TABLE venues, events RESTART IDENTITY`)
	require.NoError(t, err)

	return testDB.pool, testDB.url
}

func startTestDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// The container is reused by name across runs, so keep the reaper off.
	_ = os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("venues"),
		postgres.WithUsername("venues"),
		postgres.WithPassword("venues_dev"),
		testcontainers.WithReuseByName("venues-storage-db"),
	)
	if err != nil {
		testDB.err = err
		return
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		testDB.err = err
		return
	}

	// The server may accept connections a moment before migrations can run.
	deadline := time.Now().Add(10 * time.Second)
	for {
		err = MigrateUp(url, migrationsDir())
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		testDB.err = err
		return
	}

	testDB.pool, testDB.err = NewPool(ctx, url, 5)
	testDB.url = url
}

// migrationsDir resolves the migrations directory from this file's location
// so tests work from any working directory.
func migrationsDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return DefaultMigrationsPath
	}
	return filepath.Join(filepath.Dir(file), "migrations")
}
