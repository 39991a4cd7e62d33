package gonext

import (
	"context"
	"log/slog"
	"time"

	"github.com/aymeric-guth/obsidian-gonext-sub000/internal/platform"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/report"
)

// --- Types ---

// Vault is an opened note store with its report service.
type Vault = platform.Vault

// Config is the content of gonext.toml.
type Config = platform.Config

// Note is a decoded vault note.
type Note = core.Note

// Instruction is one element of a generated report.
type Instruction = core.Instruction

// ReportContext carries the caller's note, filters and day into a report.
type ReportContext = report.ReportContext

// --- Configuration ---

// Option defines a functional option for opening a Vault.
type Option = platform.Option

// WithLogger sets the logger for the store and report service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore injects a custom note store.
func WithStore(s core.Store) Option {
	return platform.WithStore(s)
}

// WithConfig uses cfg instead of reading gonext.toml.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// WithConfigFile reads the configuration from file.
func WithConfigFile(file string) Option {
	return platform.WithConfigFile(file)
}

// WithClock replaces time.Now for time gates and the default log day.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithReadOnly opens the vault without writing notes or the cache.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist fails instead of creating a missing vault directory.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithSystemDir overrides the hidden directory name (default ".gonext").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithStoreKind selects the store: "fs", "sqlite" or "memory".
func WithStoreKind(kind string) Option {
	return platform.WithStoreKind(kind)
}

// WithIgnore adds doublestar patterns of vault paths to skip.
func WithIgnore(patterns ...string) Option {
	return platform.WithIgnore(patterns...)
}

// --- Entry points ---

// New opens the vault at root.
func New(root string, opts ...Option) (*Vault, error) {
	return platform.New(root, opts...)
}

// DefaultConfig returns the configuration used when gonext.toml is absent.
func DefaultConfig() Config {
	return platform.DefaultConfig()
}

// FindRoot looks upwards from dir for a vault root.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}

// Snapshot exports every note of v into a SQLite file at path.
func Snapshot(ctx context.Context, v *Vault, path string) (int, error) {
	return platform.Snapshot(ctx, v.Store(), path)
}
