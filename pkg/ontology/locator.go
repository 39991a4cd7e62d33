package ontology

import (
	"context"
	"slices"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/namespace"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/revision"
)

// Locator selects the notes a resource report shows.
type Locator struct {
	// Types admitted. Empty admits every type.
	Types []core.NoteType `mapstructure:"types" toml:"types"`
	// Components wanted, as component tags. A sub-tag of a wanted tag counts.
	Components []string `mapstructure:"components" toml:"components"`
	// MinComponents is how many of Components must be present. Zero requires all.
	MinComponents int `mapstructure:"min_components" toml:"min_components"`
	// Domains admitted, matched exactly. Empty admits every domain.
	Domains []string `mapstructure:"domains" toml:"domains"`
	// DropStatus excludes actionable and media notes in these states.
	DropStatus []core.Status `mapstructure:"drop_status" toml:"drop_status"`
}

func (l Locator) threshold() int {
	if l.MinComponents <= 0 || l.MinComponents > len(l.Components) {
		return len(l.Components)
	}
	return l.MinComponents
}

// Match applies the type, component, domain and status rules.
// The latest-revision rule needs the store and is applied by Locate.
func (l Locator) Match(n *core.Note) bool {
	if len(l.Types) > 0 && !slices.Contains(l.Types, n.Type) {
		return false
	}
	if len(l.Components) > 0 {
		hits := 0
		for _, c := range l.Components {
			if n.HasTag(c) {
				hits++
			}
		}
		if hits < l.threshold() {
			return false
		}
	}
	if len(l.Domains) > 0 && !slices.Contains(l.Domains, namespace.DomainOf(n)) {
		return false
	}
	if n.Type.IsActionable() || n.Type == core.TypeMedia {
		if slices.Contains(l.DropStatus, n.Status) {
			return false
		}
	}
	return true
}

// Locate filters notes with Match and keeps only the latest revision of
// resource and permanent notes. Each revision root is indexed once per call.
func (l Locator) Locate(ctx context.Context, notes []*core.Note, r *revision.Resolver) ([]*core.Note, error) {
	indexes := make(map[string]*revision.Index)
	out := make([]*core.Note, 0, len(notes))
	for _, n := range notes {
		if !l.Match(n) {
			continue
		}
		if n.Type == core.TypeResource || n.Type == core.TypePermanent {
			root, err := r.RootFor(n.Type)
			if err != nil {
				return nil, err
			}
			idx, ok := indexes[root]
			if !ok {
				if idx, err = r.IndexRoot(ctx, root); err != nil {
					return nil, err
				}
				indexes[root] = idx
			}
			last, err := idx.IsLastRevision(n)
			if err != nil {
				return nil, err
			}
			if !last {
				continue
			}
		}
		out = append(out, n)
	}
	return out, nil
}

// Normalized qualifies bare component and domain names with their namespace.
func (l Locator) Normalized() Locator {
	l.Components = namespace.NormalizeExpressions(namespace.Component, l.Components)
	l.Domains = namespace.NormalizeExpressions(namespace.Domain, l.Domains)
	return l
}
