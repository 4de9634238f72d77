package wstate

// LogEvent describes an engine occurrence worth surfacing: snapshot decode
// sanity failures, skipped callbacks, change-hook errors. These degrade
// gracefully instead of failing the execution, so the logger is the only
// place they become visible.
type LogEvent struct {
	Op       string
	WidgetID string
	Message  string
	Err      error
}

// Logger records engine events.
type Logger interface {
	Log(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// Log implements Logger.
func (f LoggerFunc) Log(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) Log(LogEvent) {}
