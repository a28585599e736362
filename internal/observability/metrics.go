// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusmap_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campusmap_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// InteractionsTotal counts ledger writes by kind (like, dislike,
	// favorite_add, favorite_remove, comment).
	InteractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusmap_interactions_total",
		Help: "Total number of place interactions recorded",
	}, []string{"kind"})

	// FeedRequestsTotal counts feed computations by ordering.
	FeedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusmap_feed_requests_total",
		Help: "Total number of feed computations by ordering",
	}, []string{"ordering"})

	// PlaceWritesTotal counts place mutations by operation.
	PlaceWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusmap_place_writes_total",
		Help: "Total number of place create, update and delete operations",
	}, []string{"operation"})

	// CacheLookups counts cache-aside lookups by namespace and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusmap_cache_lookups_total",
		Help: "Cache lookups by namespace and result (hit, miss)",
	}, []string{"namespace", "result"})
)

const startKey = "observability:query_start"

// DatabaseMetrics records query latency for every gorm statement through
// callbacks.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	if table == "" {
		table = "unknown"
	}
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// Register hooks the latency callbacks into create, query, update, delete,
// row and raw processors.
func (m *DatabaseMetrics) Register() error {
	cb := m.db.Callback()
	hooks := []struct {
		op     string
		before func(name string, fn func(*gorm.DB)) error
		after  func(name string, fn func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, h := range hooks {
		op := h.op
		if err := h.before("metrics:before_"+op, func(tx *gorm.DB) {
			tx.InstanceSet(startKey, time.Now())
		}); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+op, func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(startKey)
			if !ok {
				return
			}
			if start, ok := v.(time.Time); ok {
				m.ObserveQuery(op, tx.Statement.Table, start)
			}
		}); err != nil {
			return err
		}
	}
	return nil
}
