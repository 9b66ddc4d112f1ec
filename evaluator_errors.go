package modelslice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyExpression = errors.New("modelslice: expression must not be empty")
	errRuleDetached    = errors.New("compiled rule missing evaluator")
)

// Evaluation phases recorded on EvaluationError.
const (
	PhaseCompile  = "compile"
	PhaseEvaluate = "evaluate"
)

// EvaluationError reports a failed expression selector with the engine,
// expression and slice it ran against.
type EvaluationError struct {
	Engine string
	Phase  string
	Expr   string
	Slice  string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("modelslice: ")
	if e.Slice != "" {
		fmt.Fprintf(&b, "slice %q: ", e.Slice)
	}
	phase := e.Phase
	if phase == "" {
		phase = PhaseEvaluate
	}
	fmt.Fprintf(&b, "%s selector failed to %s", e.Engine, phase)
	if e.Expr != "" {
		fmt.Fprintf(&b, " %q", e.Expr)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func compileError(engine, expr, slice string, err error) error {
	return annotateEvaluationError(PhaseCompile, engine, expr, slice, err)
}

func wrapEvaluationError(engine, expr, slice string, err error) error {
	return annotateEvaluationError(PhaseEvaluate, engine, expr, slice, err)
}

// annotateEvaluationError fills the blanks of an existing EvaluationError in
// the chain, or wraps err in a new one.
func annotateEvaluationError(phase, engine, expr, slice string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		return &EvaluationError{Engine: engine, Phase: phase, Expr: expr, Slice: slice, Err: err}
	}
	if evalErr.Engine == "" {
		evalErr.Engine = engine
	}
	if evalErr.Phase == "" {
		evalErr.Phase = phase
	}
	if evalErr.Expr == "" {
		evalErr.Expr = expr
	}
	if evalErr.Slice == "" {
		evalErr.Slice = slice
	}
	return evalErr
}
