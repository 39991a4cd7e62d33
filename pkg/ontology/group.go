// Package ontology buckets notes by their domain, component and area tags
// and selects the notes a resource report shows.
package ontology

import (
	"cmp"
	"slices"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

// Bucket is one key of a grouping with its notes in input order.
type Bucket[K cmp.Ordered] struct {
	Key   K
	Notes []*core.Note
}

// Group buckets notes under every key returned by keys, sorted ascending.
// A note returning several keys lands in several buckets, once per key.
func Group[K cmp.Ordered](notes []*core.Note, keys func(*core.Note) []K) []Bucket[K] {
	index := make(map[K]int)
	var out []Bucket[K]
	for _, n := range notes {
		seen := make(map[K]bool)
		for _, k := range keys(n) {
			if seen[k] {
				continue
			}
			seen[k] = true
			i, ok := index[k]
			if !ok {
				i = len(out)
				index[k] = i
				out = append(out, Bucket[K]{Key: k})
			}
			out[i].Notes = append(out[i].Notes, n)
		}
	}
	slices.SortStableFunc(out, func(a, b Bucket[K]) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// Node is one level of a nested index. Leaves carry notes, inner nodes children.
type Node struct {
	Key      string
	Notes    []*core.Note
	Children []*Node
}

// Count is the number of notes at or under the node, counting duplicates.
func (n *Node) Count() int {
	if len(n.Children) == 0 {
		return len(n.Notes)
	}
	total := 0
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Find returns the child with key.
func (n *Node) Find(key string) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// Level produces the keys of a note at one nesting depth. path holds the
// keys already chosen above it.
type Level func(n *core.Note, path []string) []string

// Nest groups notes level by level into a sorted tree.
func Nest(notes []*core.Note, levels ...Level) []*Node {
	return nest(notes, nil, levels)
}

func nest(notes []*core.Note, path []string, levels []Level) []*Node {
	if len(levels) == 0 {
		return nil
	}
	level := levels[0]
	buckets := Group(notes, func(n *core.Note) []string { return level(n, path) })
	out := make([]*Node, 0, len(buckets))
	for _, b := range buckets {
		node := &Node{Key: b.Key}
		if len(levels) == 1 {
			node.Notes = b.Notes
		} else {
			node.Children = nest(b.Notes, append(slices.Clone(path), b.Key), levels[1:])
		}
		out = append(out, node)
	}
	return out
}

// Find walks a forest by keys.
func Find(forest []*Node, keys ...string) *Node {
	var cur *Node
	for i, k := range keys {
		if i == 0 {
			for _, n := range forest {
				if n.Key == k {
					cur = n
				}
			}
		} else if cur != nil {
			cur = cur.Find(k)
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}
