// Package namespace resolves hierarchical tags such as "area/work" into the
// value a note carries for a namespace, and filters notes on those values.
package namespace

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

// Namespace names a tag category.
type Namespace string

const (
	Area      Namespace = "area"
	Context   Namespace = "context"
	Layer     Namespace = "layer"
	Org       Namespace = "org"
	Project   Namespace = "project"
	Domain    Namespace = "domain"
	Component Namespace = "component"
	Name      Namespace = "name"
	Content   Namespace = "content"
	Praxis    Namespace = "praxis"
)

// Spec is a row of the namespace table.
type Spec struct {
	Name       Namespace
	Default    string
	HasDefault bool
}

// DefaultTag is "name/default", or "" for namespaces without a default.
func (s Spec) DefaultTag() string {
	if !s.HasDefault {
		return ""
	}
	return string(s.Name) + "/" + s.Default
}

var table = map[Namespace]Spec{
	Area:      {Name: Area, Default: "none", HasDefault: true},
	Context:   {Name: Context, Default: "any", HasDefault: true},
	Layer:     {Name: Layer, Default: "none", HasDefault: true},
	Org:       {Name: Org, Default: "none", HasDefault: true},
	Project:   {Name: Project, Default: "none", HasDefault: true},
	Domain:    {Name: Domain},
	Component: {Name: Component},
	Name:      {Name: Name},
	Content:   {Name: Content},
	Praxis:    {Name: Praxis},
}

// Lookup returns the table row for ns.
func Lookup(ns Namespace) (Spec, error) {
	spec, ok := table[ns]
	if !ok {
		return Spec{}, errors.WithHint(
			errors.Wrapf(core.ErrUnknownNamespace, "%q", string(ns)),
			"known namespaces: area, context, layer, org, project, domain, component, name, content, praxis",
		)
	}
	return spec, nil
}

// Filtered lists the single-valued namespaces a Filters value covers, in evaluation order.
func Filtered() []Namespace {
	return []Namespace{Area, Context, Layer, Org, Project}
}

// Resolve returns the effective tag a note carries for ns.
//
// The exact default tag ("area/none") counts as absence. When the namespace is
// absent the result is the default tag, or nothing if emptyDefault is set.
// Tags are scanned in source order and the first hit wins, including a default
// tag that precedes a more specific one.
func Resolve(n *core.Note, ns Namespace, emptyDefault bool) (string, bool, error) {
	spec, err := Lookup(ns)
	if err != nil {
		return "", false, err
	}
	defaultTag := spec.DefaultTag()
	fallback := func() (string, bool, error) {
		if emptyDefault || !spec.HasDefault {
			return "", false, nil
		}
		return defaultTag, true, nil
	}

	for _, t := range n.Tags {
		if spec.HasDefault && t.Raw == defaultTag {
			return fallback()
		}
		if t.In(string(ns)) {
			return t.Raw, true, nil
		}
	}
	return fallback()
}

// Values returns every tag of ns on the note, in source order.
func Values(n *core.Note, ns Namespace) []core.Tag {
	var out []core.Tag
	for _, t := range n.Tags {
		if t.In(string(ns)) {
			out = append(out, t)
		}
	}
	return out
}

// DomainOf returns the first domain tag of the note, or "".
func DomainOf(n *core.Note) string {
	if v := Values(n, Domain); len(v) > 0 {
		return v[0].Raw
	}
	return ""
}

// Components returns the component tags of the note, sorted.
func Components(n *core.Note) []string {
	tags := Values(n, Component)
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Raw
	}
	slices.Sort(out)
	return out
}
