// internal/database/report.go
//
// Diagnostic reporter for resolved pool parameters.
//
// One log line per parameter, emitted before the connect attempt.  The
// input type carries only limits and timeouts—no username, password, or
// DSN can reach these lines.

package database

import (
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/dbpool/internal/config"
)

// ReportPoolSettings logs each resolved pool parameter at info level.
func ReportPoolSettings(log *zap.SugaredLogger, pool config.PoolOptions) {
	if log == nil {
		log = zap.S()
	}
	log.Infow("pool setting", "max_connections", pool.MaxConnections)
	log.Infow("pool setting", "min_connections", pool.MinConnections)
	log.Infow("pool setting", "acquire_timeout", time.Duration(pool.AcquireTimeout))
	log.Infow("pool setting", "idle_timeout", time.Duration(pool.IdleTimeout))
	log.Infow("pool setting", "max_lifetime", time.Duration(pool.MaxLifetime))
}
