package wstate

import (
	"fmt"
	"time"
)

// RuleContext carries the inputs a change rule evaluates against: the
// merged session state plus the identity and values of the widget whose
// change fired the rule.
type RuleContext struct {
	State    map[string]any
	WidgetID string
	Value    any
	Previous any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.State == nil {
		ctx.State = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) widgetLabel() string {
	if ctx.WidgetID != "" {
		return ctx.WidgetID
	}
	return "unknown"
}

// Evaluator executes rule expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// RuleOption configures an OnChangeRule binding.
type RuleOption func(*ruleBinding)

type ruleBinding struct {
	widgetID string
	args     map[string]any
	metadata map[string]any
	logger   RuleLogger
}

// RuleWithWidgetID names the widget the rule is bound to, making it
// available to the expression and to error context.
func RuleWithWidgetID(id string) RuleOption {
	return func(b *ruleBinding) {
		b.widgetID = id
	}
}

// RuleWithArgs exposes named arguments to the expression.
func RuleWithArgs(args map[string]any) RuleOption {
	return func(b *ruleBinding) {
		b.args = args
	}
}

// RuleWithMetadata attaches metadata visible to the expression.
func RuleWithMetadata(metadata map[string]any) RuleOption {
	return func(b *ruleBinding) {
		b.metadata = metadata
	}
}

// RuleWithLogger overrides where evaluation outcomes are recorded.
func RuleWithLogger(logger RuleLogger) RuleOption {
	return func(b *ruleBinding) {
		b.logger = logger
	}
}

// OnChangeRule adapts an expression into a WidgetCallback: when the
// widget's value changes, the expression is evaluated against the
// session's merged state. Evaluation failures are logged, never raised;
// a broken rule must not take down the run.
func (s *Session) OnChangeRule(evaluator Evaluator, expression string, opts ...RuleOption) WidgetCallback {
	binding := ruleBinding{}
	for _, opt := range opts {
		if opt != nil {
			opt(&binding)
		}
	}
	logger := binding.logger
	if logger == nil {
		logger = sessionRuleLogger{log: s.log}
	}

	return func(...any) {
		ctx := RuleContext{
			State:    s.state.Merged(),
			WidgetID: binding.widgetID,
			Args:     binding.args,
			Metadata: binding.metadata,
		}
		if binding.widgetID != "" {
			if value, err := s.state.Get(binding.widgetID); err == nil {
				ctx.Value = value
			}
			// Callbacks run before the pending layers fold into
			// committed, so the committed value is still the one
			// from the previous execution.
			if previous, ok := s.state.Committed(binding.widgetID); ok {
				ctx.Previous = previous
			}
		}
		engine := evaluatorEngineName(evaluator)
		start := time.Now()
		_, err := evaluator.Evaluate(ctx, expression)
		logger.LogEvaluation(RuleLogEvent{
			Engine:   engine,
			Expr:     expression,
			WidgetID: ctx.widgetLabel(),
			Duration: time.Since(start),
			Err:      wrapEvaluationError(engine, expression, ctx.widgetLabel(), err),
		})
	}
}

func evaluatorEngineName(evaluator Evaluator) string {
	switch evaluator.(type) {
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if name, ok := evaluator.(interface{ engineName() string }); ok {
			return name.engineName()
		}
		return fmt.Sprintf("%T", evaluator)
	}
}
