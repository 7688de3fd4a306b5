package providers

import (
	"errors"
	"fmt"
)

// EvaluationError captures engine metadata alongside the originating error
// when a computed entry fails to evaluate.
type EvaluationError struct {
	Engine string
	Key    string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("providers: %s engine key=%q expr=%q: %v", e.Engine, e.Key, e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapEvaluationError(engine, key, expr string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Key == "" {
			evalErr.Key = key
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return evalErr
	}

	return &EvaluationError{Engine: engine, Key: key, Expr: expr, Err: err}
}
