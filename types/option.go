package types

import (
	"github.com/mcuadros/go-defaults"
)

// ExecutionSettings is the effective per-route configuration. A fresh
// record is built from documented defaults and merged shallowly with the
// caller's options whenever new settings are supplied (execute, resume,
// update).
type ExecutionSettings struct {
	/**
	 * UpdateCallback is invoked after every step status change with the
	 * same Route value the caller passed in, mutated in place. It must not
	 * block for long and must not panic; panics are swallowed by the
	 * engine to keep the sequencing loop alive.
	 */
	UpdateCallback func(route *Route)

	/**
	 * ExecutorFactory produces the step executor used for each step.
	 * Defaults to the engine's executor; tests inject fakes here.
	 */
	ExecutorFactory ExecutorFactory

	/**
	 * default: 5, interval in seconds between status polls while a
	 * cross-chain step awaits confirmation on the destination chain.
	 */
	StatusPollSeconds int `default:"5"`

	/**
	 * default: false, request unlimited token allowance on approval so
	 * follow-up transfers of the same token skip the approval step.
	 */
	InfiniteApproval bool `default:"false"`

	// Executor-specific pass-through options.
	Options Params
}

type ExecutionOption func(*ExecutionSettings)

// NewExecutionSettings builds settings from defaults, then applies opts.
func NewExecutionSettings(opts ...ExecutionOption) *ExecutionSettings {
	settings := &ExecutionSettings{Options: Params{}}
	defaults.SetDefaults(settings)
	settings.UpdateCallback = func(*Route) {}
	for _, opt := range opts {
		opt(settings)
	}
	return settings
}

func WithUpdateCallback(cb func(route *Route)) ExecutionOption {
	return func(s *ExecutionSettings) {
		if cb != nil {
			s.UpdateCallback = cb
		}
	}
}

func WithExecutorFactory(factory ExecutorFactory) ExecutionOption {
	return func(s *ExecutionSettings) {
		s.ExecutorFactory = factory
	}
}

func WithStatusPollSeconds(seconds int) ExecutionOption {
	return func(s *ExecutionSettings) {
		if seconds > 0 {
			s.StatusPollSeconds = seconds
		}
	}
}

func WithInfiniteApproval() ExecutionOption {
	return func(s *ExecutionSettings) {
		s.InfiniteApproval = true
	}
}

func WithOption(key string, value any) ExecutionOption {
	return func(s *ExecutionSettings) {
		if s.Options == nil {
			s.Options = Params{}
		}
		s.Options.Set(key, value)
	}
}

// EngineOptions configures engine construction.
type EngineOptions struct {
	/**
	 * default: false, only set it to true when doing testing or debugging.
	 * Keeps route snapshots in memory instead of a database.
	 */
	MemStore bool `default:"false"`

	// PostgreSQL store configuration.
	// If both MemStore and PostgresConfig are set, PostgresConfig takes precedence.
	PostgresConfig *PostgresConfig

	// Default executor factory for routes that do not override it.
	ExecutorFactory ExecutorFactory
}

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // disable, require, verify-ca, verify-full
}

type EngineOption func(*EngineOptions)

func NewEngineOptions() *EngineOptions {
	opts := &EngineOptions{}
	defaults.SetDefaults(opts)
	return opts
}

func EnableMemStore() EngineOption {
	return func(opts *EngineOptions) {
		opts.MemStore = true
	}
}

// WithPostgresConfig configures the engine to persist snapshots in PostgreSQL.
func WithPostgresConfig(config *PostgresConfig) EngineOption {
	return func(opts *EngineOptions) {
		opts.PostgresConfig = config
	}
}

func WithDefaultExecutorFactory(factory ExecutorFactory) EngineOption {
	return func(opts *EngineOptions) {
		opts.ExecutorFactory = factory
	}
}
