package tracelog

import (
	"context"
	"log/slog"
)

// SlogAdapter mirrors trace events to an slog.Logger at debug level.
// Useful in development when you want driver events in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("event_id", event.EventID),
		slog.String("category", event.Category.String()),
	}

	if event.Method != "" {
		attrs = append(attrs, slog.String("method", event.Method))
	}
	if event.Mode != "" {
		attrs = append(attrs, slog.String("mode", event.Mode))
	}
	if event.Category == CategorySet || event.Category == CategoryRelay ||
		event.Category == CategoryResume || event.Category == CategoryBind {
		attrs = append(attrs, slog.Uint64("level", uint64(event.Level)))
	}
	if event.Target != "" {
		attrs = append(attrs, slog.String("target", event.Target))
	}
	if event.Err != "" {
		attrs = append(attrs, slog.String("error", event.Err))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "backlight trace", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
