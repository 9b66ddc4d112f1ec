package store

import (
	"log/slog"

	"github.com/goliatone/go-modelslice/pkg/activity"
)

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	hooks    activity.Hooks
	activity activity.Config
	logger   *slog.Logger
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{
		activity: activity.Config{Enabled: true, Channel: activity.DefaultChannel},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}

// WithActivityHooks attaches hooks notified about committed slice
// transitions. Hooks are copied and nil entries dropped; repeated use
// appends.
func WithActivityHooks(hooks ...activity.ActivityHook) Option {
	kept := cloneActivityHooks(hooks)
	return func(cfg *storeConfig) {
		cfg.hooks = append(cfg.hooks, kept...)
	}
}

// WithActivityConfig overrides the emission defaults (enabled, channel
// "slices").
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *storeConfig) {
		cfg.activity = config
	}
}

// WithLogger sets the logger for dispatch diagnostics; nil keeps
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *storeConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func cloneActivityHooks(hooks []activity.ActivityHook) activity.Hooks {
	var kept activity.Hooks
	for _, hook := range hooks {
		if hook != nil {
			kept = append(kept, hook)
		}
	}
	return kept
}
