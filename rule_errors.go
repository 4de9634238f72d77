package wstate

import (
	"errors"
	"fmt"
	"strings"
)

// EvaluationError captures evaluator metadata alongside the originating
// error.
type EvaluationError struct {
	Engine   string
	Expr     string
	WidgetID string
	Err      error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("wstate: %s evaluator %s widget=%s: %v", e.Engine, describeExpression(e.Expr), e.WidgetID, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "wstate:") {
		return err
	}
	return fmt.Errorf("wstate: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, widgetID string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.WidgetID == "" {
			evalErr.WidgetID = widgetID
		}
		return evalErr
	}

	return &EvaluationError{
		Engine:   engine,
		Expr:     expr,
		WidgetID: widgetID,
		Err:      err,
	}
}
