package config

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// TraceEvent describes one diagnostic message emitted during a load cycle.
type TraceEvent struct {
	Message    string
	Provider   string
	SnapshotID string
	Duration   time.Duration
	Err        error
}

// TraceLogger records diagnostic events. Events are only emitted when the
// manager was constructed with WithTrace(true); tracing has no effect on
// load behaviour.
type TraceLogger interface {
	LogTrace(TraceEvent)
}

// TraceLoggerFunc adapts a function to TraceLogger.
type TraceLoggerFunc func(TraceEvent)

// LogTrace implements TraceLogger.
func (f TraceLoggerFunc) LogTrace(event TraceEvent) {
	if f != nil {
		f(event)
	}
}

type noopTraceLogger struct{}

func (noopTraceLogger) LogTrace(TraceEvent) {}

// HCLogTraceLogger bridges trace events onto an hclog.Logger for
// applications that already run a structured logger.
func HCLogTraceLogger(logger hclog.Logger) TraceLogger {
	return TraceLoggerFunc(func(event TraceEvent) {
		if logger == nil {
			return
		}
		args := []any{}
		if event.Provider != "" {
			args = append(args, "provider", event.Provider)
		}
		if event.SnapshotID != "" {
			args = append(args, "snapshot_id", event.SnapshotID)
		}
		if event.Duration > 0 {
			args = append(args, "duration", event.Duration)
		}
		if event.Err != nil {
			args = append(args, "error", event.Err)
			logger.Error(event.Message, args...)
			return
		}
		logger.Debug(event.Message, args...)
	})
}
