package modelslice

import "github.com/goliatone/go-modelslice/internal/merge"

// ArrayMerge selects how update combines array values.
type ArrayMerge int

const (
	// ArrayMergeReplace overwrites arrays with the patch value.
	ArrayMergeReplace ArrayMerge = iota
	// ArrayMergeIndex merges arrays element by element.
	ArrayMergeIndex
)

func (m ArrayMerge) String() string {
	switch m {
	case ArrayMergeIndex:
		return "index"
	default:
		return "replace"
	}
}

// ParseArrayMerge converts "replace" or "index" into an ArrayMerge.
func ParseArrayMerge(value string) (ArrayMerge, bool) {
	switch value {
	case "", "replace":
		return ArrayMergeReplace, true
	case "index":
		return ArrayMergeIndex, true
	default:
		return ArrayMergeReplace, false
	}
}

func (m ArrayMerge) mode() merge.ArrayMode {
	if m == ArrayMergeIndex {
		return merge.ArrayIndex
	}
	return merge.ArrayReplace
}

// Option configures ambient slice behaviour.
type Option func(*sliceOptions)

type sliceOptions struct {
	clock           Clock
	normalizer      ErrorNormalizer
	logger          SliceLogger
	evalLogger      EvaluatorLogger
	evaluator       Evaluator
	functions       *FunctionRegistry
	programCache    ProgramCache
	arrayMerge      ArrayMerge
	schemaGenerator SchemaGenerator
	debug           bool
}

func applyOptions(opts []Option) sliceOptions {
	cfg := sliceOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithClock sets the time source used for lastModified and lastHydrated.
func WithClock(clock Clock) Option {
	return func(cfg *sliceOptions) {
		cfg.clock = clock
	}
}

// WithErrorNormalizer replaces ToSerializable for setError payloads.
func WithErrorNormalizer(normalizer ErrorNormalizer) Option {
	return func(cfg *sliceOptions) {
		cfg.normalizer = normalizer
	}
}

// WithArrayMerge selects array semantics for update.
func WithArrayMerge(mode ArrayMerge) Option {
	return func(cfg *sliceOptions) {
		cfg.arrayMerge = mode
	}
}

// WithSchemaGenerator sets the generator used to describe the slice shape in
// debug output.
func WithSchemaGenerator(generator SchemaGenerator) Option {
	return func(cfg *sliceOptions) {
		cfg.schemaGenerator = generator
	}
}

// WithDebug forces the debug dump regardless of SliceConfig.Debug.
func WithDebug(enabled bool) Option {
	return func(cfg *sliceOptions) {
		cfg.debug = enabled
	}
}

func (cfg sliceOptions) errorNormalizer() ErrorNormalizer {
	if cfg.normalizer != nil {
		return cfg.normalizer
	}
	return ToSerializable
}

func (cfg sliceOptions) sliceLogger() SliceLogger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return noopLogger{}
}

func (cfg sliceOptions) evaluatorLogger() EvaluatorLogger {
	if cfg.evalLogger != nil {
		return cfg.evalLogger
	}
	return noopLogger{}
}

func (cfg sliceOptions) schema() SchemaGenerator {
	if cfg.schemaGenerator != nil {
		return cfg.schemaGenerator
	}
	return DefaultSchemaGenerator()
}
