// Package metrics exposes pool health as Prometheus collectors.  The
// collector reads sql.DBStats on every scrape, so values are always
// current without background sampling.
package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
)

// StatsSource is anything exposing database/sql pool statistics; both
// *sqlx.DB and *database.Pool satisfy it.
type StatsSource interface {
	Stats() sql.DBStats
}

// PoolCollector exports pool statistics labeled by database name.
type PoolCollector struct {
	src StatsSource

	maxOpen           *prometheus.Desc
	open              *prometheus.Desc
	inUse             *prometheus.Desc
	idle              *prometheus.Desc
	waitCount         *prometheus.Desc
	waitDuration      *prometheus.Desc
	maxIdleClosed     *prometheus.Desc
	maxIdleTimeClosed *prometheus.Desc
	maxLifetimeClosed *prometheus.Desc
}

// NewPoolCollector returns a collector over src.  Register it with
// prometheus.MustRegister; one collector per pool.
func NewPoolCollector(dbName string, src StatsSource) *PoolCollector {
	labels := prometheus.Labels{"database": dbName}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("dbpool_"+name, help, nil, labels)
	}
	return &PoolCollector{
		src:               src,
		maxOpen:           desc("max_open_connections", "Configured upper bound on open connections."),
		open:              desc("open_connections", "Connections currently open, in use or idle."),
		inUse:             desc("in_use_connections", "Connections currently checked out."),
		idle:              desc("idle_connections", "Connections idle in the pool."),
		waitCount:         desc("wait_count_total", "Cumulative checkouts that had to wait."),
		waitDuration:      desc("wait_duration_seconds_total", "Cumulative time spent waiting for a connection."),
		maxIdleClosed:     desc("max_idle_closed_total", "Connections closed for exceeding the idle count."),
		maxIdleTimeClosed: desc("max_idle_time_closed_total", "Connections closed for exceeding the idle timeout."),
		maxLifetimeClosed: desc("max_lifetime_closed_total", "Connections closed for exceeding the max lifetime."),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.maxOpen
	ch <- c.open
	ch <- c.inUse
	ch <- c.idle
	ch <- c.waitCount
	ch <- c.waitDuration
	ch <- c.maxIdleClosed
	ch <- c.maxIdleTimeClosed
	ch <- c.maxLifetimeClosed
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.maxOpen, prometheus.GaugeValue, float64(s.MaxOpenConnections))
	ch <- prometheus.MustNewConstMetric(c.open, prometheus.GaugeValue, float64(s.OpenConnections))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.InUse))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.Idle))
	ch <- prometheus.MustNewConstMetric(c.waitCount, prometheus.CounterValue, float64(s.WaitCount))
	ch <- prometheus.MustNewConstMetric(c.waitDuration, prometheus.CounterValue, s.WaitDuration.Seconds())
	ch <- prometheus.MustNewConstMetric(c.maxIdleClosed, prometheus.CounterValue, float64(s.MaxIdleClosed))
	ch <- prometheus.MustNewConstMetric(c.maxIdleTimeClosed, prometheus.CounterValue, float64(s.MaxIdleTimeClosed))
	ch <- prometheus.MustNewConstMetric(c.maxLifetimeClosed, prometheus.CounterValue, float64(s.MaxLifetimeClosed))
}
