package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	// Habit stat recomputations, labelled by what triggered them.
	StatsRecomputeCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_stats_recompute_count",
			Help: "Total number of habit stat recomputations",
		},
		[]string{"trigger", "status"}, // trigger: log_updated, habit_updated, cache_miss
	)

	StatsRecomputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habit_stats_recompute_duration_seconds",
			Help:    "Habit stat recomputation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
		[]string{"trigger"},
	)

	TaskOverdueCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "task_overdue_count",
			Help: "Total number of tasks swept into the overdue state",
		},
	)

	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of queries slower than the configured threshold",
		},
	)

	OutboxDispatchCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_dispatch_count",
			Help: "Total number of outbox events dispatched",
		},
		[]string{"status"}, // status: sent, failed
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

func RecordStatsRecompute(trigger, status string, duration time.Duration) {
	StatsRecomputeCount.WithLabelValues(trigger, status).Inc()
	if status == "success" {
		StatsRecomputeDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	}
}
