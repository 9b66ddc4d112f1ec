package modelslice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-modelslice/internal/hydrate"
)

var ErrNoEvaluator = errors.New("modelslice: evaluator not configured")

// EvalContext carries the inputs of one expression evaluation. State is the
// slice state document: model, status, error, lastModified and lastHydrated.
type EvalContext struct {
	State map[string]any
	Slice string
	Now   *time.Time
	Args  map[string]any
}

func (ctx EvalContext) withDefaults() EvalContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.State == nil {
		ctx.State = map[string]any{}
	}
	return ctx
}

func (ctx EvalContext) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

// bindings returns the variables visible to an expression.
func (ctx EvalContext) bindings() map[string]any {
	ctx = ctx.withDefaults()
	env := map[string]any{
		"now":   ctx.timestamp(),
		"args":  ctx.Args,
		"slice": ctx.Slice,
	}
	for key, value := range ctx.State {
		env[key] = value
	}
	return env
}

// Evaluator executes expressions against slice state.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx EvalContext) (any, error)
}

// WithEvaluator sets the engine used by expression selectors. The default is
// the expr-lang evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *sliceOptions) {
		cfg.evaluator = e
	}
}

// EvaluatorByName builds the named engine: "expr", "cel" or "js". The js
// engine requires the js_eval build tag.
func EvaluatorByName(name string, cache ProgramCache, registry *FunctionRegistry) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "expr":
		var opts []ExprEvaluatorOption
		if cache != nil {
			opts = append(opts, ExprWithProgramCache(cache))
		}
		if registry != nil {
			opts = append(opts, ExprWithFunctionRegistry(registry))
		}
		return NewExprEvaluator(opts...), nil
	case "cel":
		var opts []CELEvaluatorOption
		if cache != nil {
			opts = append(opts, CELWithProgramCache(cache))
		}
		if registry != nil {
			opts = append(opts, CELWithFunctionRegistry(registry))
		}
		return NewCELEvaluator(opts...), nil
	case "js":
		var opts []JSEvaluatorOption
		if cache != nil {
			opts = append(opts, JSWithProgramCache(cache))
		}
		if registry != nil {
			opts = append(opts, JSWithFunctionRegistry(registry))
		}
		evaluator := NewJSEvaluator(opts...)
		if evaluator == nil {
			return nil, fmt.Errorf("%w: js engine requires the js_eval build tag", ErrNoEvaluator)
		}
		return evaluator, nil
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", ErrNoEvaluator, name)
	}
}

// ExprSelector compiles expression once and returns a selector evaluating it
// against this slice's state. The result is memoized on the slice state like
// the built-in selectors; evaluation failures yield nil and are reported to
// the EvaluatorLogger.
func (s *Slice[A, M, S]) ExprSelector(expression string) (*Selector[A, any], error) {
	eval, err := s.compileExpression(expression)
	if err != nil {
		return nil, err
	}
	return CreateSelector(s.Selectors.SelectSliceState.Select, func(state *ModelState[M, S]) any {
		value, err := eval(state)
		if err != nil {
			return nil
		}
		return value
	}), nil
}

// PredicateSelector is ExprSelector for boolean expressions. Non-boolean
// results and failures yield false.
func (s *Slice[A, M, S]) PredicateSelector(expression string) (*Selector[A, bool], error) {
	eval, err := s.compileExpression(expression)
	if err != nil {
		return nil, err
	}
	return CreateSelector(s.Selectors.SelectSliceState.Select, func(state *ModelState[M, S]) bool {
		value, err := eval(state)
		if err != nil {
			return false
		}
		result, _ := value.(bool)
		return result
	}), nil
}

func (s *Slice[A, M, S]) compileExpression(expression string) (func(*ModelState[M, S]) (any, error), error) {
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	engine := evaluatorEngineName(evaluator)
	if strings.TrimSpace(expression) == "" {
		return nil, compileError(engine, "", s.Name, ErrEmptyExpression)
	}
	rule, err := evaluator.Compile(expression)
	if err != nil {
		return nil, compileError(engine, expression, s.Name, err)
	}

	return func(state *ModelState[M, S]) (any, error) {
		start := time.Now()
		doc, err := stateDocument(state)
		var value any
		if err == nil {
			value, err = rule.Evaluate(EvalContext{State: doc, Slice: s.Name})
		}
		err = wrapEvaluationError(engine, expression, s.Name, err)
		s.cfg.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
			Engine:   engine,
			Expr:     expression,
			Slice:    s.Name,
			Duration: time.Since(start),
			Err:      err,
		})
		return value, err
	}, nil
}

func (s *Slice[A, M, S]) resolveEvaluator() (Evaluator, error) {
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator, nil
	}
	evaluator, err := EvaluatorByName("expr", s.cfg.programCache, s.cfg.functions)
	if err != nil {
		return nil, err
	}
	s.cfg.evaluator = evaluator
	return evaluator, nil
}

func stateDocument[M any, S StatusEnum[S]](state *ModelState[M, S]) (map[string]any, error) {
	if state == nil {
		return map[string]any{}, nil
	}
	doc, err := hydrate.ToDocument(state, false)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch e.(type) {
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if isJSEvaluator(e) {
			return "js"
		}
		return "custom"
	}
}
