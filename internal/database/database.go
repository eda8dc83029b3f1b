// Package database turns a validated config.DatabaseConfig into a live
// sqlx connection pool.  The default driver is go-sql-driver/mysql,
// which also works with MariaDB and Cockroach when configured for the
// MySQL wire protocol.
//
// Public entry point:
//
//	CreateConnectionPool(ctx, cfg, log) – descriptor build, diagnostic
//	report, establishment, typed failures.
//
// Pool limits are copied verbatim from cfg.PoolOptions.  With
// IsLazy=false the pool warms MinConnections eagerly so callers fail
// fast during bootstrap; lazy pools return immediately and dial on
// first use.  Callers should Close() the returned *Pool when no longer
// needed.
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/dbpool/internal/config"
)

// driverName is a var so tests can point the bootstrap at sqlmock.
var driverName = "mysql"

// Pool is the handle returned by CreateConnectionPool.  It embeds the
// sqlx pool and adds a bounded prepared-statement cache.
type Pool struct {
	*sqlx.DB

	endpoint string
	stmts    *stmtCache
}

// Endpoint returns the derived "host:port" (or bare "host") string this
// pool dials.  Safe to log.
func (p *Pool) Endpoint() string { return p.endpoint }

// CreateConnectionPool builds connection options from cfg, reports the
// resolved pool parameters, and establishes the pool.  Failures come
// back as *InvalidEndpointError or *EstablishmentError and are logged
// with the derived endpoint, never the credentials.
func CreateConnectionPool(ctx context.Context, cfg config.DatabaseConfig, log *zap.SugaredLogger) (*Pool, error) {
	if log == nil {
		log = zap.S()
	}
	log.Infow("initializing database connection pool", "host", cfg.Host)

	opts, err := buildConnectOptions(&cfg)
	if err != nil {
		log.Errorw("connection descriptor rejected", "endpoint", cfg.Address(), "err", err)
		return nil, err
	}

	// Report resolved settings before dialing so operators can diagnose
	// misconfiguration even when the connect step fails.
	ReportPoolSettings(log, opts.pool)

	db, err := sqlx.Open(driverName, opts.dsn)
	if err != nil {
		e := &EstablishmentError{Endpoint: opts.endpoint, Err: err}
		log.Errorw("database open failed", "endpoint", opts.endpoint, "err", err)
		return nil, e
	}

	db.SetMaxOpenConns(int(opts.pool.MaxConnections))
	db.SetMaxIdleConns(int(opts.pool.MinConnections))
	db.SetConnMaxIdleTime(time.Duration(opts.pool.IdleTimeout))
	db.SetConnMaxLifetime(time.Duration(opts.pool.MaxLifetime))

	log.Infow("connecting to the database",
		"endpoint", opts.endpoint,
		"lazy", opts.pool.IsLazy,
	)

	if !opts.pool.IsLazy {
		if err := warmUp(ctx, db.DB, opts.pool); err != nil {
			db.Close()
			e := &EstablishmentError{Endpoint: opts.endpoint, Err: err}
			log.Errorw("database connect failed", "endpoint", opts.endpoint, "err", err)
			return nil, e
		}
	}

	log.Infow("database connection pool online", "host", cfg.Host)
	return &Pool{
		DB:       db,
		endpoint: opts.endpoint,
		stmts:    newStmtCache(opts.pool.StatementCacheCapacity),
	}, nil
}

// warmUp opens MinConnections eagerly, bounded by the acquire timeout.
// The connections are checked back in before returning, leaving them
// idle in the pool.
func warmUp(ctx context.Context, db *sql.DB, pool config.PoolOptions) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(pool.AcquireTimeout))
	defer cancel()

	if pool.MinConnections == 0 {
		return db.PingContext(ctx)
	}

	conns := make([]*sql.Conn, 0, pool.MinConnections)
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
	}()
	for i := uint32(0); i < pool.MinConnections; i++ {
		c, err := db.Conn(ctx)
		if err != nil {
			return err
		}
		conns = append(conns, c)
	}
	return nil
}

// PreparexCached returns a prepared statement for query, reusing a
// cached one when available.  Statements stay owned by the cache: they
// are closed on eviction, so obtain one per use instead of retaining
// it, and never Close a statement obtained here.
func (p *Pool) PreparexCached(ctx context.Context, query string) (*sqlx.Stmt, error) {
	if p.stmts == nil {
		return p.PreparexContext(ctx, query)
	}
	if st, ok := p.stmts.get(query); ok {
		return st, nil
	}

	// Concurrent misses on the same query collapse into one prepare, and
	// every waiter receives the statement that ends up cached.
	v, err, _ := p.stmts.group.Do(query, func() (any, error) {
		if st, ok := p.stmts.get(query); ok {
			return st, nil
		}
		st, err := p.PreparexContext(ctx, query)
		if err != nil {
			return nil, err
		}
		return p.stmts.put(query, st), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sqlx.Stmt), nil
}

// Close releases cached statements, then the underlying pool.
func (p *Pool) Close() error {
	if p.stmts != nil {
		p.stmts.close()
	}
	return p.DB.Close()
}
