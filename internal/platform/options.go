package platform

import (
	"log/slog"
	"time"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

// options holds the internal configuration for a Vault.
type options struct {
	logger     *slog.Logger
	store      core.Store
	config     *Config
	configFile string
	clock      func() time.Time
	readOnly   bool
	mustExist  bool
	systemDir  string
	storeKind  string
	ignore     []string
}

// Option defines a functional option for configuring a Vault.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for the store and report service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a store (e.g. a memory store in tests).
// The configured store kind is then ignored.
func WithStore(s core.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithConfig uses cfg instead of reading gonext.toml.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = &cfg
	}
}

// WithConfigFile reads the configuration from file instead of the vault root.
func WithConfigFile(file string) Option {
	return func(o *options) {
		o.configFile = file
	}
}

// WithClock replaces time.Now for the report service.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithReadOnly opens the vault without writing notes or the cache.
// The vault must already exist.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist fails instead of creating a missing vault directory.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithSystemDir overrides the hidden directory name (default ".gonext").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithStoreKind overrides the configured store: "fs", "sqlite" or "memory".
func WithStoreKind(kind string) Option {
	return func(o *options) {
		o.storeKind = kind
	}
}

// WithIgnore adds doublestar patterns of vault paths to skip.
func WithIgnore(patterns ...string) Option {
	return func(o *options) {
		o.ignore = append(o.ignore, patterns...)
	}
}
