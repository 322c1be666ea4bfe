package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "weld_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	runTotal   *prometheus.CounterVec
	runLatency *prometheus.HistogramVec

	jointsTotal *prometheus.CounterVec

	lookupFailures *prometheus.CounterVec
	writeFailures  *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers weld metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		runTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "runs_total",
				Help: "Total weld passes by command and result",
			},
			[]string{"command", "result"},
		)
		runLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "run_latency_seconds",
				Help:    "Weld pass latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command", "result"},
		)

		jointsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "joints_total",
				Help: "Total weld joints built by command and class",
			},
			[]string{"command", "class"},
		)

		lookupFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "lookup_failures_total",
				Help: "Property lookups resolved to empty values after a failure",
			},
			[]string{"source"},
		)
		writeFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "write_failures_total",
				Help: "Property row writes that failed by command",
			},
			[]string{"command"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "schedule_export_total",
				Help: "Total weld schedule exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "schedule_export_latency_seconds",
				Help:    "Weld schedule export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			runTotal,
			runLatency,
			jointsTotal,
			lookupFailures,
			writeFailures,
			exportTotal,
			exportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveWeldRun records a pass duration and result.
func ObserveWeldRun(command, result string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if runTotal != nil {
		runTotal.WithLabelValues(command, result).Inc()
	}
	if runLatency != nil {
		runLatency.WithLabelValues(command, result).Observe(duration.Seconds())
	}
}

// AddWeldJoints adds built joints of a class.
func AddWeldJoints(command, class string, count int) {
	if count <= 0 {
		return
	}
	if jointsTotal != nil {
		jointsTotal.WithLabelValues(command, class).Add(float64(count))
	}
}

// IncWeldLookupFailure increments the lookup failure counter.
func IncWeldLookupFailure(source string) {
	if source == "" {
		source = "unknown"
	}
	if lookupFailures != nil {
		lookupFailures.WithLabelValues(source).Inc()
	}
}

// IncWeldWriteFailure increments the row write failure counter.
func IncWeldWriteFailure(command string) {
	if command == "" {
		command = "unknown"
	}
	if writeFailures != nil {
		writeFailures.WithLabelValues(command).Inc()
	}
}

// ObserveScheduleExport records export latency and result.
func ObserveScheduleExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
