package core

import "strings"

// Tag is a hierarchical tag parsed once per note.
//
//	area/work          -> Namespace "area", Value "work"
//	component/go/test  -> Namespace "component", Value "go", Fragment "test"
type Tag struct {
	Raw       string
	Namespace string
	Value     string
	Fragment  string
}

// ParseTag splits a raw tag. A leading '#' is dropped.
func ParseTag(raw string) Tag {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	t := Tag{Raw: raw}
	ns, rest, found := strings.Cut(raw, "/")
	t.Namespace = ns
	if !found {
		return t
	}
	t.Value, t.Fragment, _ = strings.Cut(rest, "/")
	return t
}

// ParseTags parses raw tags keeping their order. Blank entries are dropped.
func ParseTags(raw []string) []Tag {
	out := make([]Tag, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(strings.TrimPrefix(r, "#")) == "" {
			continue
		}
		out = append(out, ParseTag(r))
	}
	return out
}

// Rest is everything after "namespace/".
func (t Tag) Rest() string {
	if len(t.Raw) <= len(t.Namespace)+1 {
		return ""
	}
	return t.Raw[len(t.Namespace)+1:]
}

// In reports whether the tag belongs to ns and carries a value.
func (t Tag) In(ns string) bool {
	return t.Namespace == ns && t.Rest() != ""
}

func (t Tag) String() string { return t.Raw }
