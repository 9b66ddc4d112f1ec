package modelslice

import (
	"context"
	"log/slog"
	"time"
)

// SliceEventKind classifies a SliceLogEvent.
type SliceEventKind string

const (
	// SliceEventCreated is the debug dump emitted by CreateModelSlice.
	SliceEventCreated SliceEventKind = "created"
	// SliceEventRejected reports an action whose payload could not be applied.
	SliceEventRejected SliceEventKind = "rejected"
)

// SliceLogEvent describes a diagnostic occurrence for one slice.
type SliceLogEvent struct {
	Kind         SliceEventKind
	Slice        string
	ActionTypes  []string
	Shape        SchemaDocument
	InitialState any
	Action       string
	Err          error
}

// SliceLogger records slice diagnostics.
type SliceLogger interface {
	LogSlice(SliceLogEvent)
}

// SliceLoggerFunc adapts a function to SliceLogger.
type SliceLoggerFunc func(SliceLogEvent)

// LogSlice implements SliceLogger.
func (f SliceLoggerFunc) LogSlice(event SliceLogEvent) {
	if f != nil {
		f(event)
	}
}

// EvaluatorLogEvent describes an expression selector evaluation.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Slice    string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogSlice(SliceLogEvent)          {}
func (noopLogger) LogEvaluation(EvaluatorLogEvent) {}

// SlogLogger writes slice and evaluator diagnostics to a slog.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps logger; nil selects slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

// LogSlice implements SliceLogger.
func (l *SlogLogger) LogSlice(event SliceLogEvent) {
	ctx := context.Background()
	switch event.Kind {
	case SliceEventCreated:
		// Only emitted when the slice opted into debug.
		l.logger.LogAttrs(ctx, slog.LevelInfo, "modelslice: slice created",
			slog.String("slice", event.Slice),
			slog.Any("actions", event.ActionTypes),
			slog.Any("shape", event.Shape.Document),
			slog.Any("initial_state", event.InitialState),
		)
	case SliceEventRejected:
		l.logger.LogAttrs(ctx, slog.LevelWarn, "modelslice: action rejected",
			slog.String("slice", event.Slice),
			slog.String("action", event.Action),
			slog.Any("error", event.Err),
		)
	default:
		l.logger.LogAttrs(ctx, slog.LevelInfo, "modelslice: event",
			slog.String("slice", event.Slice),
			slog.String("kind", string(event.Kind)),
		)
	}
}

// LogEvaluation implements EvaluatorLogger.
func (l *SlogLogger) LogEvaluation(event EvaluatorLogEvent) {
	level := slog.LevelDebug
	if event.Err != nil {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{
		slog.String("engine", event.Engine),
		slog.String("expr", event.Expr),
		slog.String("slice", event.Slice),
		slog.Duration("duration", event.Duration),
	}
	if event.Err != nil {
		attrs = append(attrs, slog.Any("error", event.Err))
	}
	l.logger.LogAttrs(context.Background(), level, "modelslice: expression evaluated", attrs...)
}

// WithLogger sets the slice diagnostic sink. A logger that also implements
// EvaluatorLogger receives expression selector events too.
func WithLogger(logger SliceLogger) Option {
	return func(cfg *sliceOptions) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
		if evalLogger, ok := logger.(EvaluatorLogger); ok && cfg.evalLogger == nil {
			cfg.evalLogger = evalLogger
		}
	}
}

// WithEvaluatorLogger sets the sink for expression selector evaluations.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *sliceOptions) {
		if logger == nil {
			cfg.evalLogger = noopLogger{}
			return
		}
		cfg.evalLogger = logger
	}
}
