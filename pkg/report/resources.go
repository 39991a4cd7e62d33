package report

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/ontology"
)

// chain lists the revisions of the context note, newest first.
func chain(ctx context.Context, p *Pass) error {
	n := p.rc.Note
	if n == nil {
		return errors.WithHint(
			errors.Wrap(core.ErrMissingField, "the chain report needs a note"),
			"pass --note <id>",
		)
	}
	idx, err := p.svc.revisions.IndexFor(ctx, n)
	if err != nil {
		return err
	}
	revs, err := idx.Chain(n)
	if err != nil {
		return err
	}

	p.Header(1, "Revisions of "+n.Label())
	p.Stat("revisions", "", float64(len(revs)))
	if head := revs[0]; head.UUID == n.UUID {
		p.Paragraph("This is the latest revision.")
	} else {
		p.Paragraph("Superseded by %s.", head.Label())
	}
	p.Table(RendererChain, revs)
	return nil
}

// current returns the latest permanent and resource notes.
func (p *Pass) current(ctx context.Context) ([]*core.Note, error) {
	perm, err := p.latest(ctx, core.TypePermanent)
	if err != nil {
		return nil, err
	}
	res, err := p.latest(ctx, core.TypeResource)
	if err != nil {
		return nil, err
	}
	return append(perm, res...), nil
}

// ontologyReport groups current knowledge notes by ontology signature.
func ontologyReport(ctx context.Context, p *Pass) error {
	notes, err := p.current(ctx)
	if err != nil {
		return err
	}
	groups := ontology.BySignature(notes)

	p.Header(1, "Ontology")
	p.Stat("signatures", "", float64(len(groups)))
	for _, g := range groups {
		title := g.Domain
		if title == "" {
			title = ontology.NoDomain
		}
		if len(g.Components) > 0 {
			title += ": " + strings.Join(g.Components, ", ")
		}
		p.Header(2, title)
		p.Table(RendererNotes, g.Notes)
	}
	return nil
}

// located keeps the current resources matching the locator's domain and
// component rules.
func (p *Pass) located(ctx context.Context) ([]*core.Note, error) {
	res, err := p.latest(ctx, core.TypeResource)
	if err != nil {
		return nil, err
	}
	loc := p.locator()
	loc.Types = nil
	out := res[:0:0]
	for _, n := range res {
		if loc.Match(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func domains(ctx context.Context, p *Pass) error {
	res, err := p.located(ctx)
	if err != nil {
		return err
	}
	p.Header(1, "Domains")
	p.Stat("resources", "", float64(len(res)))
	p.forest(ontology.ByDomain(res), 2, RendererResources)
	return nil
}

func components(ctx context.Context, p *Pass) error {
	res, err := p.located(ctx)
	if err != nil {
		return err
	}
	p.Header(1, "Components")
	p.Stat("resources", "", float64(len(res)))
	p.forest(ontology.ByComponent(res), 2, RendererResources)
	return nil
}

// resources runs the locator over the whole store and groups the result by type.
func resources(ctx context.Context, p *Pass) error {
	all, err := p.svc.store.List(ctx)
	if err != nil {
		return errors.Wrap(err, "listing notes")
	}
	found, err := p.locator().Locate(ctx, all, p.svc.revisions)
	if err != nil {
		return err
	}

	p.Header(1, "Resources")
	p.Stat("matches", "", float64(len(found)))
	for _, b := range ontology.Group(found, func(n *core.Note) []string { return []string{string(n.Type)} }) {
		p.Header(2, b.Key)
		p.Table(RendererResources, b.Notes)
	}
	return nil
}
