package modelslice

import (
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	expect := Config{ArrayMerge: "replace", Evaluator: "expr", LogLevel: "info"}
	if cfg != expect {
		t.Fatalf("unexpected defaults %#v", cfg)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("MODELSLICE_DEBUG", "true")
	t.Setenv("MODELSLICE_ARRAY_MERGE", "index")
	t.Setenv("MODELSLICE_EVALUATOR", "cel")
	t.Setenv("MODELSLICE_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.Debug || cfg.ArrayMerge != "index" || cfg.Evaluator != "cel" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		key   string
		value string
		want  string
	}{
		{key: "MODELSLICE_DEBUG", value: "maybe", want: "parse env"},
		{key: "MODELSLICE_ARRAY_MERGE", value: "concat", want: "array merge"},
		{key: "MODELSLICE_EVALUATOR", value: "lua", want: "evaluator"},
		{key: "MODELSLICE_LOG_LEVEL", value: "loud", want: "log level"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := LoadConfig()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigOptionsApply(t *testing.T) {
	cfg := Config{ArrayMerge: "index", Evaluator: "cel", LogLevel: "error"}
	opts, err := cfg.Options(WithClock(fixedClock(fixedTime)))
	if err != nil {
		t.Fatalf("options: %v", err)
	}

	slice := newDocumentSlice(t, opts...)
	if slice.cfg.arrayMerge != ArrayMergeIndex {
		t.Fatalf("expected index array merge")
	}
	if _, ok := slice.cfg.evaluator.(*celEvaluator); !ok {
		t.Fatalf("expected cel evaluator, got %T", slice.cfg.evaluator)
	}
	if _, ok := slice.cfg.logger.(*SlogLogger); !ok {
		t.Fatalf("expected slog logger, got %T", slice.cfg.logger)
	}
	if slice.cfg.debug {
		t.Fatalf("expected debug disabled")
	}
}
