// Package report turns a store snapshot into the instruction sequence of a
// named report. A pass either yields every instruction or none.
package report

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/namespace"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/ontology"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/readiness"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/revision"
)

// Roots are the vault folders each note family lives in.
type Roots struct {
	Tasks     string `mapstructure:"tasks" toml:"tasks"`
	Permanent string `mapstructure:"permanent" toml:"permanent"`
	Resources string `mapstructure:"resources" toml:"resources"`
	Domains   string `mapstructure:"domains" toml:"domains"`
	Logs      string `mapstructure:"logs" toml:"logs"`
	Media     string `mapstructure:"media" toml:"media"`
}

// Config drives every report of a Service.
type Config struct {
	Roots   Roots             `mapstructure:"roots" toml:"roots"`
	Filters namespace.Filters `mapstructure:"filters" toml:"filters"`
	Locator ontology.Locator  `mapstructure:"locator" toml:"locator"`
}

// DefaultConfig matches the folder layout gonext scaffolds.
func DefaultConfig() Config {
	return Config{
		Roots: Roots{
			Tasks:     "Tasks",
			Permanent: "Permanent",
			Resources: "Resources",
			Domains:   "Domains",
			Logs:      "Logs",
			Media:     "Media",
		},
		Locator: ontology.Locator{
			DropStatus: []core.Status{core.StatusDone, core.StatusTrash},
		},
	}
}

// ReportContext carries what a report needs from its caller: the note it
// was started from, filter overrides and the day it summarizes.
type ReportContext struct {
	Note    *core.Note
	Filters namespace.Filters
	Locator *ontology.Locator
	Day     string // YYYY-MM-DD; empty means today
}

// Generator appends the instructions of one report to p.
type Generator func(ctx context.Context, p *Pass) error

// Service runs reports against a store.
type Service struct {
	store     core.Store
	config    Config
	logger    *slog.Logger
	now       func() time.Time
	readiness *readiness.Engine
	revisions *revision.Resolver

	mu         sync.RWMutex
	generators map[string]Generator
	runs       int
	failures   int
	lastReport string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, for time gates and the default day.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithGenerator registers or replaces a report.
func WithGenerator(name string, g Generator) Option {
	return func(s *Service) { s.generators[name] = g }
}

// New creates a Service with the built-in reports registered.
func New(store core.Store, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:  store,
		config: cfg,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		generators: map[string]Generator{
			"doable":     doable,
			"areas":      areas,
			"chain":      chain,
			"ontology":   ontologyReport,
			"domains":    domains,
			"components": components,
			"resources":  resources,
			"logs":       logs,
			"praxis":     praxis,
			"media":      media,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.readiness = readiness.New(store, cfg.Roots.Tasks, s.logger)
	s.readiness.Now = s.now
	s.revisions = &revision.Resolver{
		Store:         store,
		PermanentRoot: cfg.Roots.Permanent,
		ResourceRoot:  cfg.Roots.Resources,
	}
	return s
}

// Names lists the registered reports, sorted.
func (s *Service) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.generators))
	for name := range s.generators {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Generate runs the named report. On error no instruction is returned.
func (s *Service) Generate(ctx context.Context, name string, rc ReportContext) ([]core.Instruction, error) {
	s.mu.RLock()
	g, ok := s.generators[name]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.WithHintf(errors.Newf("unknown report %q", name), "available reports: %v", s.Names())
	}

	p := &Pass{svc: s, rc: rc}
	start := time.Now()
	err := g(ctx, p)
	s.record(name, err)
	if err != nil {
		s.logger.Error("report failed", "report", name, "fatal", core.IsFatal(err), "error", err)
		return nil, errors.Wrapf(err, "report %s", name)
	}
	s.logger.Debug("report generated", "report", name, "instructions", len(p.out), "elapsed", time.Since(start))
	return p.out, nil
}

// Config returns the configuration the service runs with.
func (s *Service) Config() Config { return s.config }

// Store exposes the underlying store for the host's read commands.
func (s *Service) Store() core.Store { return s.store }

// Readiness exposes the dependency engine, e.g. to explain a blocked task.
func (s *Service) Readiness() *readiness.Engine { return s.readiness }

// Revisions exposes the chain resolver.
func (s *Service) Revisions() *revision.Resolver { return s.revisions }

// Save stores a note when the store accepts writes.
func (s *Service) Save(ctx context.Context, n *core.Note, body string) error {
	w, ok := s.store.(core.Writer)
	if !ok {
		return errors.Wrap(core.ErrReadOnly, "store does not accept writes")
	}
	return w.Save(ctx, n, body)
}

// Watch observes changes in the store if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	w, ok := s.store.(core.Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	return w.Watch(ctx, pattern)
}

func (s *Service) record(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	if err != nil {
		s.failures++
	}
	s.lastReport = name
}
