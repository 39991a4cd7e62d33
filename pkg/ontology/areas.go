package ontology

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/namespace"
)

// AreaDomainMap links domains to the areas they serve, both ways.
// Keys are full tags: "domain/dev", "area/work".
type AreaDomainMap struct {
	DomainAreas map[string][]string
	AreaDomains map[string][]string
}

// IndexAreaDomainMap reads Domain notes. Each must carry a name/<x> tag,
// which names domain/<x>, and at least one area tag.
func IndexAreaDomainMap(domains []*core.Note) (*AreaDomainMap, error) {
	m := &AreaDomainMap{
		DomainAreas: make(map[string][]string),
		AreaDomains: make(map[string][]string),
	}
	for _, d := range domains {
		names := namespace.Values(d, namespace.Name)
		if len(names) == 0 {
			return nil, errors.WithHint(
				errors.Wrapf(core.ErrInvalidDomain, "%s has no name", d.ID),
				"add a name/<domain> tag",
			)
		}
		areas := namespace.Values(d, namespace.Area)
		if len(areas) == 0 {
			return nil, errors.WithHint(
				errors.Wrapf(core.ErrInvalidDomain, "%s declares no area", d.ID),
				"add at least one area/<area> tag",
			)
		}
		domain := string(namespace.Domain) + "/" + names[0].Rest()
		for _, a := range areas {
			m.DomainAreas[domain] = appendUnique(m.DomainAreas[domain], a.Raw)
			m.AreaDomains[a.Raw] = appendUnique(m.AreaDomains[a.Raw], domain)
		}
	}
	for k := range m.DomainAreas {
		slices.Sort(m.DomainAreas[k])
	}
	for k := range m.AreaDomains {
		slices.Sort(m.AreaDomains[k])
	}
	return m, nil
}

// AreasOf returns the areas of domain, or NoArea when it is unknown.
func (m *AreaDomainMap) AreasOf(domain string) []string {
	if areas := m.DomainAreas[domain]; len(areas) > 0 {
		return areas
	}
	return []string{NoArea}
}

// Areas returns every area known to the map, sorted.
func (m *AreaDomainMap) Areas() []string {
	out := make([]string, 0, len(m.AreaDomains))
	for a := range m.AreaDomains {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// IndexCommon nests notes area -> domain -> component, placing each note
// under every area its domain belongs to.
func IndexCommon(notes []*core.Note, m *AreaDomainMap) []*Node {
	areaLevel := func(n *core.Note, _ []string) []string {
		return m.AreasOf(DomainLevel(n, nil)[0])
	}
	return Nest(notes, areaLevel, DomainLevel, ComponentLevel)
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
