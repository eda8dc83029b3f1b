// internal/config/model.go
//
// Typed configuration model for dbpool.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                          – dotenv values,
//   • the YAML file passed to Load             – primary static file,
//   • `DBPOOL_`-prefixed environment overrides – highest precedence.
//
// Serialized keys are camelCase (`databaseName`, `poolOptions`,
// `sslCa`); the same keys are used by the koanf tree and by JSON, so a
// document written in either format round-trips.  A password value
// beginning with `vault:` is a secret reference resolved through
// `ResolveSecrets` before the config is used, keeping credentials out
// of flat files and git history.
//
// Validation happens immediately after unmarshal; decoding fails fast
// if required fields are missing.
//
// Notes
// -----
//   • Struct tags carry both `koanf:"…"` and `json:"…"`—Koanf ignores
//     yaml tags unless configured otherwise, and JSON is the format the
//     round-trip tests exercise.
//   • `port` and `sslCa` are sparse: absent values are omitted from
//     serialized output.

package config

import (
	"encoding/json"
	"fmt"
	"time"
)

//
// Pool-option defaults
//

// Default pool-option values, public so callers and tests can assert
// against them.
const (
	DefaultMaxConnections         uint32 = 10
	DefaultMinConnections         uint32 = 1
	DefaultAcquireTimeout                = Duration(30 * time.Second)
	DefaultIdleTimeout                   = Duration(300 * time.Second)
	DefaultMaxLifetime                   = Duration(1800 * time.Second)
	DefaultIsLazy                        = true
	DefaultStatementCacheCapacity        = 100
)

//
// Root aggregate
//

// AppConfig is the immutable aggregate returned by Load() and cached in
// an atomic.Pointer for lock-free reads throughout the app lifetime.
type AppConfig struct {
	Database DatabaseConfig `koanf:"database" json:"database"`
}

//
// Database section
//

// DatabaseConfig describes one database endpoint: server address,
// credentials, catalog, and pool tunables.
type DatabaseConfig struct {
	// Host is the hostname or IP address of the database server.
	Host string `koanf:"host" json:"host" validate:"required"`

	// Port is optional; when nil the driver-implied default port is
	// used (3306 for the MySQL wire protocol).
	Port *uint16 `koanf:"port" json:"port,omitempty"`

	// Username and Password authenticate to the server.  Neither is
	// ever logged.
	Username string `koanf:"username" json:"username" validate:"required"`
	Password string `koanf:"password" json:"password" validate:"required"`

	// DatabaseName selects the schema to connect to.
	DatabaseName string `koanf:"databaseName" json:"databaseName" validate:"required"`

	// PoolOptions tunes the connection pool.  Omitting the section
	// yields DefaultPoolOptions().
	PoolOptions PoolOptions `koanf:"poolOptions" json:"poolOptions"`

	// SSLCA is an optional path to a CA bundle.  Empty means no
	// explicit TLS configuration is applied.
	SSLCA string `koanf:"sslCa" json:"sslCa,omitempty"`
}

// Address returns "host:port" when a port is set, else the host alone.
// Every endpoint string in the codebase—DSN construction, logs, error
// messages—comes from here, so logged and dialed addresses match.
func (c *DatabaseConfig) Address() string {
	if c.Port != nil {
		return fmt.Sprintf("%s:%d", c.Host, *c.Port)
	}
	return c.Host
}

// UnmarshalJSON applies pool-option defaults before decoding so an
// omitted poolOptions section resolves to DefaultPoolOptions().
func (c *DatabaseConfig) UnmarshalJSON(data []byte) error {
	type alias DatabaseConfig
	aux := (*alias)(c)
	aux.PoolOptions = DefaultPoolOptions()
	return json.Unmarshal(data, aux)
}

//
// Pool options
//

// PoolOptions bounds the lifecycle of pooled connections.  Unspecified
// fields resolve to the documented defaults with no cross-field
// interference.  The `minConnections ≤ maxConnections` relationship is
// the caller's responsibility and is forwarded to the pool as given.
type PoolOptions struct {
	// MaxConnections is the upper bound on simultaneously open
	// connections.  Default 10.
	MaxConnections uint32 `koanf:"maxConnections" json:"maxConnections"`

	// MinConnections is the floor the pool keeps warm.  database/sql
	// expresses a floor as the idle-connection target, so this maps to
	// SetMaxIdleConns plus the eager warm-up when IsLazy is false.
	// Default 1.
	MinConnections uint32 `koanf:"minConnections" json:"minConnections"`

	// AcquireTimeout is the maximum wait to obtain a connection.
	// Default 30s.
	AcquireTimeout Duration `koanf:"acquireTimeout" json:"acquireTimeout"`

	// IdleTimeout closes connections idle longer than this.
	// Default 300s.
	IdleTimeout Duration `koanf:"idleTimeout" json:"idleTimeout"`

	// MaxLifetime recycles a connection once it has been open this
	// long, idle or not.  Default 1800s.
	MaxLifetime Duration `koanf:"maxLifetime" json:"maxLifetime"`

	// IsLazy defers opening connections until first use; false opens
	// MinConnections at pool creation.  Default true.
	IsLazy bool `koanf:"isLazy" json:"isLazy"`

	// StatementCacheCapacity bounds the per-pool prepared-statement
	// cache, evicted least-recently-used.  Default 100.
	StatementCacheCapacity int `koanf:"statementCacheCapacity" json:"statementCacheCapacity"`
}

// DefaultPoolOptions returns the documented default pool tunables.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxConnections:         DefaultMaxConnections,
		MinConnections:         DefaultMinConnections,
		AcquireTimeout:         DefaultAcquireTimeout,
		IdleTimeout:            DefaultIdleTimeout,
		MaxLifetime:            DefaultMaxLifetime,
		IsLazy:                 DefaultIsLazy,
		StatementCacheCapacity: DefaultStatementCacheCapacity,
	}
}

// UnmarshalJSON starts from the defaults so partial documents override
// only the fields they name.
func (p *PoolOptions) UnmarshalJSON(data []byte) error {
	type alias PoolOptions
	aux := (*alias)(p)
	*aux = alias(DefaultPoolOptions())
	return json.Unmarshal(data, aux)
}
