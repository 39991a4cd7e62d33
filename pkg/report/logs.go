package report

import (
	"cmp"
	"context"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

type logGroup struct {
	parent *core.Note // nil for logs without a parent
	logs   []*core.Note
	spent  time.Duration
}

// logs summarizes the log entries of one day, per owning task.
func logs(ctx context.Context, p *Pass) error {
	day := p.rc.Day
	if day == "" {
		day = p.Now().Format(time.DateOnly)
	}
	if _, err := time.Parse(time.DateOnly, day); err != nil {
		return errors.WithHint(errors.Newf("invalid day %q", day), "use YYYY-MM-DD")
	}

	entries, err := p.ofType(ctx, p.svc.config.Roots.Logs, core.TypeLog)
	if err != nil {
		return err
	}

	groups := make(map[string]*logGroup)
	var total time.Duration
	count := 0
	for _, e := range entries {
		if e.CreatedAt == nil {
			return errors.Wrapf(core.ErrMissingField, "log %s has no created_at", e.ID)
		}
		if e.CreatedAt.Format(time.DateOnly) != day {
			continue
		}
		if e.DoneAt == nil {
			return errors.WithHint(
				errors.Wrapf(core.ErrMissingField, "log %s has no done_at", e.ID),
				"close the log entry before summarizing the day",
			)
		}
		spent := e.DoneAt.Sub(*e.CreatedAt)
		if spent < 0 {
			p.Logger().Warn("log ends before it starts, counting zero", "id", e.ID)
			spent = 0
		}

		g, ok := groups[e.ParentID]
		if !ok {
			g = &logGroup{}
			if e.ParentID != "" {
				parent, err := p.svc.store.Get(ctx, path.Join(p.svc.config.Roots.Tasks, e.ParentID))
				if core.IsNotFound(err) {
					return errors.Wrapf(core.ErrDanglingReference, "log %s: parent %s", e.ID, e.ParentID)
				}
				if err != nil {
					return err
				}
				g.parent = parent
			}
			groups[e.ParentID] = g
		}
		g.logs = append(g.logs, e)
		g.spent += spent
		total += spent
		count++
	}

	ordered := make([]*logGroup, 0, len(groups))
	for _, g := range groups {
		slices.SortFunc(g.logs, func(a, b *core.Note) int { return a.CreatedAt.Compare(*b.CreatedAt) })
		ordered = append(ordered, g)
	}
	slices.SortFunc(ordered, func(a, b *logGroup) int {
		if c := cmp.Compare(b.spent, a.spent); c != 0 {
			return c
		}
		return strings.Compare(a.label(), b.label())
	})

	p.Header(1, "Log "+day)
	p.Stat("entries", "", float64(count))
	p.Stat("time spent", "min", total.Minutes())
	if count == 0 {
		p.Paragraph("No log entries.")
	}
	for _, g := range ordered {
		p.Header(2, g.label())
		p.Stat("time spent", "min", g.spent.Minutes())
		p.Table(RendererLogs, g.logs)
	}
	return nil
}

func (g *logGroup) label() string {
	if g.parent == nil {
		return "Unassigned"
	}
	return g.parent.Label()
}

// media groups media notes under the note their ref_id points to.
func media(ctx context.Context, p *Pass) error {
	items, err := p.ofType(ctx, p.svc.config.Roots.Media, core.TypeMedia)
	if err != nil {
		return err
	}
	drop := p.locator().DropStatus
	kept := items[:0:0]
	for _, m := range items {
		if !slices.Contains(drop, m.Status) {
			kept = append(kept, m)
		}
	}

	var owners map[string]*core.Note
	byOwner := make(map[string][]*core.Note)
	for _, m := range kept {
		if m.RefID != "" {
			if owners == nil {
				if owners, err = p.byUUID(ctx); err != nil {
					return err
				}
			}
			if _, ok := owners[m.RefID]; !ok {
				return errors.Wrapf(core.ErrDanglingReference, "media %s: ref %s", m.ID, m.RefID)
			}
		}
		byOwner[m.RefID] = append(byOwner[m.RefID], m)
	}

	keys := make([]string, 0, len(byOwner))
	for k := range byOwner {
		keys = append(keys, k)
	}
	label := func(ref string) string {
		if ref == "" {
			return "Unlinked"
		}
		return owners[ref].Label()
	}
	// Unlinked media last.
	slices.SortFunc(keys, func(a, b string) int {
		if (a == "") != (b == "") {
			if a == "" {
				return 1
			}
			return -1
		}
		return strings.Compare(label(a), label(b))
	})

	p.Header(1, "Media")
	p.Stat("media", "", float64(len(kept)))
	for _, k := range keys {
		p.Header(2, label(k))
		p.Table(RendererMedia, byOwner[k])
	}
	return nil
}
