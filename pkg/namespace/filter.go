package namespace

import (
	"strings"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

// Matches evaluates filter expressions against an already resolved value.
//
// An empty list matches. "!x" fails the whole list when name is x and sets the
// result otherwise. A positive "x" sets the result on a match and clears it on
// a miss, so a later positive miss erases an earlier hit: ["a","x"] matches
// "x" while ["x","a"] does not. Callers rely on this ordering; keep it.
func Matches(name string, expressions []string) bool {
	if len(expressions) == 0 {
		return true
	}
	found := false
	for _, expr := range expressions {
		if neg, ok := strings.CutPrefix(expr, "!"); ok {
			if name == neg {
				return false
			}
			found = true
			continue
		}
		found = name == expr
	}
	return found
}

// Filters holds one expression list per filtered namespace.
type Filters struct {
	Area    []string `mapstructure:"area" toml:"area"`
	Context []string `mapstructure:"context" toml:"context"`
	Layer   []string `mapstructure:"layer" toml:"layer"`
	Org     []string `mapstructure:"org" toml:"org"`
	Project []string `mapstructure:"project" toml:"project"`
}

// For returns the expression list of ns.
func (f Filters) For(ns Namespace) []string {
	switch ns {
	case Area:
		return f.Area
	case Context:
		return f.Context
	case Layer:
		return f.Layer
	case Org:
		return f.Org
	case Project:
		return f.Project
	}
	return nil
}

// IsZero reports whether no dimension is filtered.
func (f Filters) IsZero() bool {
	for _, ns := range Filtered() {
		if len(f.For(ns)) > 0 {
			return false
		}
	}
	return true
}

// Merge returns f with every empty dimension taken from fallback.
func (f Filters) Merge(fallback Filters) Filters {
	pick := func(a, b []string) []string {
		if len(a) > 0 {
			return a
		}
		return b
	}
	return Filters{
		Area:    pick(f.Area, fallback.Area),
		Context: pick(f.Context, fallback.Context),
		Layer:   pick(f.Layer, fallback.Layer),
		Org:     pick(f.Org, fallback.Org),
		Project: pick(f.Project, fallback.Project),
	}
}

// Normalized qualifies bare values in every dimension, see NormalizeExpressions.
func (f Filters) Normalized() Filters {
	return Filters{
		Area:    NormalizeExpressions(Area, f.Area),
		Context: NormalizeExpressions(Context, f.Context),
		Layer:   NormalizeExpressions(Layer, f.Layer),
		Org:     NormalizeExpressions(Org, f.Org),
		Project: NormalizeExpressions(Project, f.Project),
	}
}

// Match resolves each dimension with defaults applied and ANDs the results.
func (f Filters) Match(n *core.Note) (bool, error) {
	for _, ns := range Filtered() {
		exprs := f.For(ns)
		if len(exprs) == 0 {
			continue
		}
		value, _, err := Resolve(n, ns, false)
		if err != nil {
			return false, err
		}
		if !Matches(value, exprs) {
			return false, nil
		}
	}
	return true, nil
}

// NormalizeExpressions prefixes bare values with the namespace:
// "work" becomes "area/work" and "!work" becomes "!area/work".
func NormalizeExpressions(ns Namespace, exprs []string) []string {
	if len(exprs) == 0 {
		return nil
	}
	prefix := string(ns) + "/"
	out := make([]string, 0, len(exprs))
	for _, e := range exprs {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		neg := ""
		if rest, ok := strings.CutPrefix(e, "!"); ok {
			neg, e = "!", rest
		}
		e = strings.TrimPrefix(e, "#")
		if !strings.HasPrefix(e, prefix) {
			e = prefix + e
		}
		out = append(out, neg+e)
	}
	return out
}
