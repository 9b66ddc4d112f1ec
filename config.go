package modelslice

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds slice defaults read from the environment.
type Config struct {
	Debug      bool   `env:"MODELSLICE_DEBUG" envDefault:"false"`
	ArrayMerge string `env:"MODELSLICE_ARRAY_MERGE" envDefault:"replace"`
	Evaluator  string `env:"MODELSLICE_EVALUATOR" envDefault:"expr"`
	LogLevel   string `env:"MODELSLICE_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig parses Config from environment variables and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("modelslice: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports unknown enumerated values.
func (c Config) Validate() error {
	if _, ok := ParseArrayMerge(strings.ToLower(c.ArrayMerge)); !ok {
		return fmt.Errorf("modelslice: invalid array merge mode %q", c.ArrayMerge)
	}
	switch strings.ToLower(strings.TrimSpace(c.Evaluator)) {
	case "", "expr", "cel", "js":
	default:
		return fmt.Errorf("modelslice: invalid evaluator %q", c.Evaluator)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	value := strings.TrimSpace(c.LogLevel)
	if value == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("modelslice: invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Logger returns a text slog.Logger on stderr filtered at LogLevel.
func (c Config) Logger() *slog.Logger {
	level, _ := c.level()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Options converts the configuration into slice options. extra options are
// appended and therefore win over the environment.
func (c Config) Options(extra ...Option) ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	mode, _ := ParseArrayMerge(strings.ToLower(c.ArrayMerge))
	evaluator, err := EvaluatorByName(c.Evaluator, nil, nil)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithArrayMerge(mode),
		WithEvaluator(evaluator),
		WithLogger(NewSlogLogger(c.Logger())),
	}
	if c.Debug {
		opts = append(opts, WithDebug(true))
	}
	return append(opts, extra...), nil
}
