package wstate

import "time"

// RuleLogEvent describes one rule evaluation attempt.
type RuleLogEvent struct {
	Engine   string
	Expr     string
	WidgetID string
	Duration time.Duration
	Err      error
}

// RuleLogger records rule evaluation events.
type RuleLogger interface {
	LogEvaluation(RuleLogEvent)
}

// RuleLoggerFunc adapts a function to RuleLogger.
type RuleLoggerFunc func(RuleLogEvent)

// LogEvaluation implements RuleLogger.
func (f RuleLoggerFunc) LogEvaluation(event RuleLogEvent) {
	if f != nil {
		f(event)
	}
}

// sessionRuleLogger forwards failed evaluations to the session logger.
type sessionRuleLogger struct {
	log Logger
}

func (l sessionRuleLogger) LogEvaluation(event RuleLogEvent) {
	if event.Err == nil {
		return
	}
	l.log.Log(LogEvent{Op: "rule", WidgetID: event.WidgetID, Err: event.Err})
}
