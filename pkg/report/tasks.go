package report

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/namespace"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/ontology"
)

const noTrait = "praxis/none"

// doable lists the Todo tasks passing the filters, split into the ones that
// can be started now and the blocked ones, grouped by area.
func doable(ctx context.Context, p *Pass) error {
	tasks, err := p.ofType(ctx, p.svc.config.Roots.Tasks, core.TypeTask, core.TypeProvision, core.TypePraxis)
	if err != nil {
		return err
	}
	if tasks, err = p.filtered(tasks); err != nil {
		return err
	}

	var ready, blocked []*core.Note
	for _, t := range tasks {
		if t.Status != core.StatusTodo {
			continue
		}
		ok, err := p.svc.readiness.IsDoable(ctx, t)
		if err != nil {
			return err
		}
		if ok {
			ready = append(ready, t)
		} else {
			blocked = append(blocked, t)
		}
	}

	p.Header(1, "Doable")
	p.Stat("doable", "tasks", float64(len(ready)))
	p.Stat("blocked", "tasks", float64(len(blocked)))
	if len(ready) == 0 {
		p.Paragraph("Nothing to do.")
	}
	p.byArea(ready, 2, RendererTasks)

	if len(blocked) > 0 {
		p.Header(1, "Blocked")
		p.byArea(blocked, 2, RendererBlocked)
	}
	return nil
}

func (p *Pass) byArea(notes []*core.Note, level int, renderer string) {
	for _, b := range ontology.Group(notes, areaOf) {
		byPriority(b.Notes)
		p.Header(level, b.Key)
		p.Table(renderer, b.Notes)
	}
}

func areaOf(n *core.Note) []string {
	area, _, _ := namespace.Resolve(n, namespace.Area, false)
	return []string{area}
}

// areas nests open tasks and current resources under area, domain and
// component, using the Domain notes to map domains onto areas.
func areas(ctx context.Context, p *Pass) error {
	roots := p.svc.config.Roots
	domains, err := p.ofType(ctx, roots.Domains, core.TypeDomain)
	if err != nil {
		return err
	}
	m, err := ontology.IndexAreaDomainMap(domains)
	if err != nil {
		return err
	}

	tasks, err := p.ofType(ctx, roots.Tasks, core.TypeTask, core.TypeProvision, core.TypePraxis)
	if err != nil {
		return err
	}
	open := make([]*core.Note, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == core.StatusTodo || t.Status == core.StatusDoing {
			open = append(open, t)
		}
	}
	if open, err = p.filtered(open); err != nil {
		return err
	}
	res, err := p.latest(ctx, core.TypeResource)
	if err != nil {
		return err
	}

	p.Header(1, "Areas")
	p.Stat("areas", "", float64(len(m.Areas())))
	p.forest(ontology.IndexCommon(append(open, res...), m), 2, RendererNotes)
	return nil
}

// praxis groups praxis notes by their single praxis/<trait> tag.
func praxis(ctx context.Context, p *Pass) error {
	notes, err := p.svc.store.ByPredicate(ctx, func(n *core.Note) bool { return n.Type == core.TypePraxis })
	if err != nil {
		return errors.Wrap(err, "listing praxis")
	}
	if notes, err = p.filtered(notes); err != nil {
		return err
	}
	drop := p.locator().DropStatus

	trait := make(map[*core.Note]string, len(notes))
	kept := notes[:0:0]
	for _, n := range notes {
		if slices.Contains(drop, n.Status) {
			continue
		}
		traits := namespace.Values(n, namespace.Praxis)
		switch len(traits) {
		case 0:
			trait[n] = noTrait
		case 1:
			trait[n] = traits[0].Raw
		default:
			return errors.WithHint(
				errors.Wrapf(core.ErrMultipleTraits, "%s carries %d traits", n.ID, len(traits)),
				"keep a single praxis/<trait> tag",
			)
		}
		kept = append(kept, n)
	}

	p.Header(1, "Praxis")
	p.Stat("praxis", "notes", float64(len(kept)))
	for _, b := range ontology.Group(kept, func(n *core.Note) []string { return []string{trait[n]} }) {
		byPriority(b.Notes)
		p.Header(2, b.Key)
		p.Table(RendererTasks, b.Notes)
	}
	return nil
}
