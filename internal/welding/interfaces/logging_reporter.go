package interfaces

import (
	"context"
	"log"

	"weld-schedule/internal/observability/metrics"
)

// LoggingReporter logs property lookups that fell back to empty values.
type LoggingReporter struct {
	logger *log.Logger
	source string
}

// NewLoggingReporter constructs a reporter. source labels the lookup failure metric.
func NewLoggingReporter(logger *log.Logger, source string) *LoggingReporter {
	if logger == nil {
		logger = log.Default()
	}
	return &LoggingReporter{logger: logger, source: source}
}

// Report logs the failure and counts it.
func (r *LoggingReporter) Report(ctx context.Context, err error) {
	_ = ctx
	if r == nil || err == nil {
		return
	}
	metrics.IncWeldLookupFailure(r.source)
	r.logger.Printf("weld lookup failed: %v", err)
}
