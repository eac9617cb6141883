package tracelog

// Logger is the interface trace sinks implement.
// Pass nil or NopLogger to disable tracing.
type Logger interface {
	// Log records a trace event. Implementations must be thread-safe
	// and must not let logging failures reach the driver.
	Log(event Event)
}

// NopLogger discards all events. Use when tracing is disabled.
// NopLogger is safe for concurrent use and usable as a zero value.
type NopLogger struct{}

// Log discards the event.
func (NopLogger) Log(Event) {}

// MultiLogger sends events to multiple loggers, e.g. a FileLogger and
// a SlogAdapter simultaneously.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger over the provided loggers.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

// Log sends the event to all configured loggers.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = NopLogger{}
	_ Logger = (*MultiLogger)(nil)
)
