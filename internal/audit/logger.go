package audit

import (
	"context"
	"log"
)

// LogLogger writes audit entries to a log.Logger when no database is configured.
type LogLogger struct {
	logger *log.Logger
}

// NewLogLogger constructs a log-backed audit logger.
func NewLogLogger(logger *log.Logger) *LogLogger {
	if logger == nil {
		logger = log.Default()
	}
	return &LogLogger{logger: logger}
}

// Log prints the entry.
func (l *LogLogger) Log(ctx context.Context, entry Entry) error {
	_ = ctx
	l.logger.Printf("audit: project=%s actor=%s role=%s action=%s resource=%s/%s meta=%s",
		entry.ProjectID, entry.Actor, entry.Role, entry.Action, entry.ResourceType, entry.ResourceID, string(entry.Metadata))
	return nil
}
