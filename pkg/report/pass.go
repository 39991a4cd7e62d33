package report

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/namespace"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/ontology"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/revision"
)

// Table renderer names understood by the presentation layer.
const (
	RendererTasks     = "tasks"
	RendererBlocked   = "blocked"
	RendererNotes     = "notes"
	RendererChain     = "chain"
	RendererResources = "resources"
	RendererLogs      = "logs"
	RendererMedia     = "media"
)

// Pass is the state of one report run. Generators read the store through it
// and append instructions.
type Pass struct {
	svc *Service
	rc  ReportContext
	out []core.Instruction
}

// Context returns the caller-supplied context of the pass.
func (p *Pass) Context() ReportContext { return p.rc }

// Store is the store the pass reads.
func (p *Pass) Store() core.Store { return p.svc.store }

// Logger is the service logger.
func (p *Pass) Logger() *slog.Logger { return p.svc.logger }

// Now is the pass clock.
func (p *Pass) Now() time.Time { return p.svc.now() }

// Header appends a section title; level is clamped to 1..4.
func (p *Pass) Header(level int, text string) {
	p.out = append(p.out, core.NewHeader(level, text))
}

// Paragraph appends formatted free text.
func (p *Pass) Paragraph(format string, args ...any) {
	if len(args) == 0 {
		p.out = append(p.out, core.Paragraph{Text: format})
		return
	}
	p.out = append(p.out, core.Paragraph{Text: fmt.Sprintf(format, args...)})
}

// Table appends rows; an empty table is skipped.
func (p *Pass) Table(renderer string, rows []*core.Note) {
	if len(rows) == 0 {
		return
	}
	p.out = append(p.out, core.Table{Renderer: renderer, Rows: rows})
}

// Stat appends a named measurement.
func (p *Pass) Stat(name, unit string, value float64) {
	p.out = append(p.out, core.Stat{Name: name, Unit: unit, Value: value})
}

// filters are the caller's filters with empty dimensions taken from config.
func (p *Pass) filters() namespace.Filters {
	return p.rc.Filters.Merge(p.svc.config.Filters).Normalized()
}

func (p *Pass) locator() ontology.Locator {
	if p.rc.Locator != nil {
		return p.rc.Locator.Normalized()
	}
	return p.svc.config.Locator.Normalized()
}

// filtered keeps the notes passing the pass filters.
func (p *Pass) filtered(notes []*core.Note) ([]*core.Note, error) {
	f := p.filters()
	if f.IsZero() {
		return notes, nil
	}
	out := make([]*core.Note, 0, len(notes))
	for _, n := range notes {
		ok, err := f.Match(n)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// ofType loads the notes under root whose type is one of types.
func (p *Pass) ofType(ctx context.Context, root string, types ...core.NoteType) ([]*core.Note, error) {
	notes, err := p.svc.store.ByPathPrefix(ctx, root)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", root)
	}
	out := notes[:0:0]
	for _, n := range notes {
		if slices.Contains(types, n.Type) {
			out = append(out, n)
		}
	}
	return out, nil
}

// latest loads the notes of one revision root and keeps the chain heads.
func (p *Pass) latest(ctx context.Context, t core.NoteType) ([]*core.Note, error) {
	root, err := p.svc.revisions.RootFor(t)
	if err != nil {
		return nil, err
	}
	all, err := p.svc.store.ByPathPrefix(ctx, root)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", root)
	}
	idx, err := revision.NewIndex(all)
	if err != nil {
		return nil, err
	}
	var notes []*core.Note
	for _, n := range all {
		if n.Type == t {
			notes = append(notes, n)
		}
	}
	return idx.Heads(notes)
}

// byUUID indexes every note of the store.
func (p *Pass) byUUID(ctx context.Context) (map[string]*core.Note, error) {
	all, err := p.svc.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing notes")
	}
	m := make(map[string]*core.Note, len(all))
	for _, n := range all {
		m[n.UUID] = n
	}
	return m, nil
}

// forest emits a nested index: one header per level, a table at the leaves.
// Empty keys (no fragment) put the table directly under the parent.
func (p *Pass) forest(nodes []*ontology.Node, level int, renderer string) {
	for _, n := range nodes {
		if n.Key != "" {
			p.Header(level, n.Key)
		}
		if len(n.Children) == 0 {
			p.Table(renderer, n.Notes)
			continue
		}
		next := level + 1
		if n.Key == "" {
			next = level
		}
		p.forest(n.Children, next, renderer)
	}
}

// byPriority orders tasks by priority descending, then by ID.
func byPriority(notes []*core.Note) {
	slices.SortStableFunc(notes, func(a, b *core.Note) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
