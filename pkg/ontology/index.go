package ontology

import (
	"cmp"
	"slices"
	"strings"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/namespace"
)

// Keys used for notes that lack the tag a level groups on.
const (
	NoDomain    = "domain/none"
	NoComponent = "component/none"
	NoArea      = "area/none"
)

// DomainLevel keys a note by its first domain tag.
func DomainLevel(n *core.Note, _ []string) []string {
	if d := namespace.DomainOf(n); d != "" {
		return []string{d}
	}
	return []string{NoDomain}
}

// ComponentLevel keys a note by each component it carries, without fragment.
func ComponentLevel(n *core.Note, _ []string) []string {
	tags := namespace.Values(n, namespace.Component)
	if len(tags) == 0 {
		return []string{NoComponent}
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, componentName(t))
	}
	return out
}

// FragmentLevel keys a note by the fragments it carries under the component
// chosen at depth. A component without fragment is keyed "".
func FragmentLevel(depth int) Level {
	return func(n *core.Note, path []string) []string {
		component := path[depth]
		var out []string
		for _, t := range namespace.Values(n, namespace.Component) {
			if componentName(t) == component {
				out = append(out, t.Fragment)
			}
		}
		if len(out) == 0 {
			out = append(out, "")
		}
		return out
	}
}

func componentName(t core.Tag) string {
	return t.Namespace + "/" + t.Value
}

// ByDomain nests notes domain -> component -> fragment.
func ByDomain(notes []*core.Note) []*Node {
	return Nest(notes, DomainLevel, ComponentLevel, FragmentLevel(1))
}

// ByComponent nests notes component -> fragment -> domain. Notes sharing a
// component and fragment are merged per domain.
func ByComponent(notes []*core.Note) []*Node {
	return Nest(notes, ComponentLevel, FragmentLevel(0), DomainLevel)
}

// SignatureGroup holds notes sharing a domain and component set.
type SignatureGroup struct {
	Signature  string
	Domain     string
	Components []string
	Notes      []*core.Note
}

// Signature is "domain\n" followed by the sorted component tags joined by newlines.
func Signature(n *core.Note) string {
	return namespace.DomainOf(n) + "\n" + strings.Join(namespace.Components(n), "\n")
}

// BySignature dedupes notes by uuid, groups them by signature and orders the
// groups by size, largest first, then by signature.
func BySignature(notes []*core.Note) []SignatureGroup {
	seen := make(map[string]bool, len(notes))
	unique := make([]*core.Note, 0, len(notes))
	for _, n := range notes {
		if seen[n.UUID] {
			continue
		}
		seen[n.UUID] = true
		unique = append(unique, n)
	}

	buckets := Group(unique, func(n *core.Note) []string { return []string{Signature(n)} })
	out := make([]SignatureGroup, 0, len(buckets))
	for _, b := range buckets {
		first := b.Notes[0]
		out = append(out, SignatureGroup{
			Signature:  b.Key,
			Domain:     namespace.DomainOf(first),
			Components: namespace.Components(first),
			Notes:      b.Notes,
		})
	}
	slices.SortStableFunc(out, func(a, b SignatureGroup) int {
		if c := cmp.Compare(len(b.Notes), len(a.Notes)); c != 0 {
			return c
		}
		return cmp.Compare(a.Signature, b.Signature)
	})
	return out
}
