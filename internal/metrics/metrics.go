// Package metrics defines all Prometheus metrics for udhcpd.
// All metrics use the "udhcpd_" prefix.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "udhcpd"

// --- Config Metrics ---

var (
	// ConfigLoads counts config file loads by result (ok, open_error).
	ConfigLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "config_loads_total",
		Help:      "Total config file loads, by result.",
	}, []string{"result"})

	// ConfigLinesSkipped counts statements that had no effect, by reason.
	ConfigLinesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "config_lines_skipped_total",
		Help:      "Config statements ignored, by reason (unknown_keyword, bad_value).",
	}, []string{"reason"})

	// OptionsConfigured is the number of option records in the active config.
	OptionsConfigured = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "options_configured",
		Help:      "Number of encoded option records in the active configuration.",
	})
)

// --- Lease File Metrics ---

var (
	// LeasesActive is a gauge of occupied lease slots.
	LeasesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "leases_active",
		Help:      "Number of occupied lease table slots.",
	})

	// LeaseTableCapacity is the configured max_leases.
	LeaseTableCapacity = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "lease_table_capacity",
		Help:      "Number of slots in the lease table (max_leases).",
	})

	// LeaseFileWrites counts lease file writes by result.
	LeaseFileWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lease_file_writes_total",
		Help:      "Total lease file writes, by result.",
	}, []string{"result"})

	// LeaseFileWriteDuration tracks how long a lease file write takes.
	LeaseFileWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "lease_file_write_duration_seconds",
		Help:      "Lease file write duration in seconds.",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
	})

	// LeaseRecords counts lease records processed, by operation (written, loaded, skipped).
	LeaseRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lease_records_total",
		Help:      "Total lease records processed, by operation.",
	}, []string{"operation"})

	// LeaseFileTruncations counts loads that stopped at table capacity with data left over.
	LeaseFileTruncations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lease_file_truncations_total",
		Help:      "Total lease file loads that hit max_leases with records remaining.",
	})

	// SnapshotSaves counts lease snapshot database saves by result.
	SnapshotSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_saves_total",
		Help:      "Total lease snapshot saves, by result.",
	}, []string{"result"})
)

// --- Hook Metrics ---

var (
	// HookExecutions counts hook executions by type and result.
	HookExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hook_executions_total",
		Help:      "Total hook executions.",
	}, []string{"hook_type", "result"})

	// HookDuration tracks hook execution latency.
	HookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "hook_execution_duration_seconds",
		Help:      "Hook execution duration in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0},
	}, []string{"hook_type"})
)

// --- Server Info ---

var (
	// ServerInfo is a constant gauge with server metadata.
	ServerInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "server_info",
		Help:      "Server build and version info.",
	}, []string{"version"})

	// ServerStartTime tracks server start time as a unix timestamp.
	ServerStartTime = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "server_start_time_seconds",
		Help:      "Server start time as Unix timestamp.",
	})
)

// --- Status API Metrics ---

var (
	// APIRequests counts status API requests by method, path, and status.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total HTTP status API requests.",
	}, []string{"method", "path", "status"})

	// APIRequestDuration tracks status API request latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "HTTP status API request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)
