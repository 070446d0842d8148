package audit

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mfedosov/finguard/core/logger"
)

// SlogSink emits security events as structured slog records.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a sink writing to the given logger.
// A nil logger discards events.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SlogSink{logger: logger}
}

// Event writes the event at a level derived from its severity.
func (s *SlogSink) Event(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	attrs := make([]slog.Attr, 0, 8)
	attrs = append(attrs,
		logger.EventType(string(e.Type)),
		slog.Time("at", e.At),
		logger.Success(e.Success),
		logger.Username(e.Username),
		logger.Source(e.Source),
		logger.Reason(e.Reason),
	)
	for k, v := range e.Meta {
		attrs = append(attrs, slog.String(k, v))
	}

	s.logger.LogAttrs(ctx, level(e.Severity), "security event", attrs...)
}

func level(s Severity) slog.Level {
	switch s {
	case SeverityCritical:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
