// internal/database/database_test.go
//
// Unit-tests for the pool bootstrap using sqlmock.
//
// Context
// -------
// sqlmock registers a mock driver keyed by DSN, so each test that dials
// uses a distinct database name to keep registrations apart.  The
// package-level driverName is repointed at "sqlmock" for the duration
// of a test.
//
// Run: go test ./internal/database -v

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"

	"github.com/yanizio/dbpool/internal/config"
)

func useMockDriver(t *testing.T) {
	t.Helper()
	old := driverName
	driverName = "sqlmock"
	t.Cleanup(func() { driverName = old })
}

// mockFor registers a sqlmock connection under the exact DSN the
// bootstrap will derive from cfg.
func mockFor(t *testing.T, cfg config.DatabaseConfig) sqlmock.Sqlmock {
	t.Helper()
	opts, err := buildConnectOptions(&cfg)
	if err != nil {
		t.Fatalf("buildConnectOptions: %v", err)
	}
	_, mock, err := sqlmock.NewWithDSN(opts.dsn)
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return mock
}

func testConfig(dbName string) config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:         "db.test",
		Username:     "u",
		Password:     "p",
		DatabaseName: dbName,
		PoolOptions:  config.DefaultPoolOptions(),
	}
}

func TestCreateConnectionPoolLazy(t *testing.T) {
	useMockDriver(t)
	cfg := testConfig("lazy_db")
	mockFor(t, cfg)

	pool, err := CreateConnectionPool(context.Background(), cfg, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("CreateConnectionPool: %v", err)
	}
	defer pool.Close()

	if pool.Endpoint() != "db.test" {
		t.Errorf("Endpoint() = %q", pool.Endpoint())
	}
	if got := pool.Stats().MaxOpenConnections; got != 10 {
		t.Errorf("MaxOpenConnections = %d, want 10", got)
	}
}

func TestCreateConnectionPoolEager(t *testing.T) {
	useMockDriver(t)
	cfg := testConfig("eager_db")
	cfg.PoolOptions.IsLazy = false
	cfg.PoolOptions.MinConnections = 2
	mockFor(t, cfg)

	pool, err := CreateConnectionPool(context.Background(), cfg, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("CreateConnectionPool: %v", err)
	}
	defer pool.Close()

	// The warm-up opened MinConnections and returned them to the pool.
	if got := pool.Stats().OpenConnections; got < 2 {
		t.Errorf("OpenConnections = %d, want ≥ 2 after warm-up", got)
	}
}

func TestCreateConnectionPoolInvalidUsername(t *testing.T) {
	useMockDriver(t)
	cfg := testConfig("bad_user_db")
	cfg.Username = "user:name"

	_, err := CreateConnectionPool(context.Background(), cfg, zap.NewNop().Sugar())
	var invalid *InvalidEndpointError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want *InvalidEndpointError", err)
	}
}

func TestEstablishmentErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := &EstablishmentError{Endpoint: "h:1", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("EstablishmentError does not unwrap to its cause")
	}
	if msg := err.Error(); msg == "" {
		t.Error("empty error message")
	}
}
