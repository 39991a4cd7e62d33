// Package revision resolves the history of notes superseded through their
// next field.
//
// A note's next names its successor. The head of a chain is the most recent
// revision, the one no successor can be followed from. Chains are listed
// head first.
package revision

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

// Index is a reverse index over one snapshot of a revision root.
type Index struct {
	byUUID map[string]*core.Note
	prev   map[string]*core.Note // successor uuid -> predecessor
}

// NewIndex indexes notes once. Two notes naming the same successor are rejected.
func NewIndex(notes []*core.Note) (*Index, error) {
	idx := &Index{
		byUUID: make(map[string]*core.Note, len(notes)),
		prev:   make(map[string]*core.Note),
	}
	for _, n := range notes {
		idx.byUUID[n.UUID] = n
	}
	for _, n := range notes {
		if n.Next == "" {
			continue
		}
		if other, ok := idx.prev[n.Next]; ok {
			ids := []string{other.ID, n.ID}
			slices.Sort(ids)
			return nil, errors.WithHintf(
				errors.Wrapf(core.ErrMultiplePredecessors, "%s and %s both point to %s", ids[0], ids[1], n.Next),
				"only one note may name %s as next", n.Next,
			)
		}
		idx.prev[n.Next] = n
	}
	return idx, nil
}

// Len is the number of indexed notes.
func (idx *Index) Len() int { return len(idx.byUUID) }

// Lookup returns the indexed note with uuid.
func (idx *Index) Lookup(uuid string) (*core.Note, bool) {
	n, ok := idx.byUUID[uuid]
	return n, ok
}

// Predecessor returns the note whose next is n.
func (idx *Index) Predecessor(n *core.Note) (*core.Note, bool) {
	p, ok := idx.prev[n.UUID]
	return p, ok
}

// Head follows successors from n to the most recent revision.
// A next that cannot be found ends the walk.
func (idx *Index) Head(n *core.Note) (*core.Note, error) {
	seen := map[string]bool{n.UUID: true}
	cur := n
	for cur.Next != "" {
		succ, ok := idx.byUUID[cur.Next]
		if !ok {
			break
		}
		if seen[succ.UUID] {
			return nil, errors.Wrapf(core.ErrRevisionCycle, "at %s", succ.ID)
		}
		seen[succ.UUID] = true
		cur = succ
	}
	return cur, nil
}

// Chain lists the revisions of n, most recent first.
func (idx *Index) Chain(n *core.Note) ([]*core.Note, error) {
	head, err := idx.Head(n)
	if err != nil {
		return nil, err
	}
	chain := []*core.Note{head}
	seen := map[string]bool{head.UUID: true}
	cur := head
	for {
		p, ok := idx.prev[cur.UUID]
		if !ok {
			break
		}
		if seen[p.UUID] {
			return nil, errors.Wrapf(core.ErrRevisionCycle, "at %s", p.ID)
		}
		seen[p.UUID] = true
		chain = append(chain, p)
		cur = p
	}
	return chain, nil
}

// IsLastRevision reports whether n is the head of its chain.
func (idx *Index) IsLastRevision(n *core.Note) (bool, error) {
	chain, err := idx.Chain(n)
	if err != nil {
		return false, err
	}
	if len(chain) <= 1 {
		return true, nil
	}
	return chain[0].UUID == n.UUID, nil
}

// Heads returns the notes that are the head of their chain, in input order.
func (idx *Index) Heads(notes []*core.Note) ([]*core.Note, error) {
	out := make([]*core.Note, 0, len(notes))
	for _, n := range notes {
		last, err := idx.IsLastRevision(n)
		if err != nil {
			return nil, err
		}
		if last {
			out = append(out, n)
		}
	}
	return out, nil
}

// Resolver builds indexes for the revision roots of a store.
type Resolver struct {
	Store         core.Store
	PermanentRoot string
	ResourceRoot  string
}

// RootFor returns the folder holding the chain of a note of type t.
func (r *Resolver) RootFor(t core.NoteType) (string, error) {
	switch t {
	case core.TypePermanent:
		return r.PermanentRoot, nil
	case core.TypeResource:
		return r.ResourceRoot, nil
	}
	return "", errors.Wrapf(core.ErrUnsupportedType, "revision chains only exist for permanent and resource notes, got %q", string(t))
}

// IndexFor indexes the root that holds n's chain.
func (r *Resolver) IndexFor(ctx context.Context, n *core.Note) (*Index, error) {
	root, err := r.RootFor(n.Type)
	if err != nil {
		return nil, err
	}
	return r.IndexRoot(ctx, root)
}

// IndexRoot indexes every note stored under root.
func (r *Resolver) IndexRoot(ctx context.Context, root string) (*Index, error) {
	notes, err := r.Store.ByPathPrefix(ctx, root)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", root)
	}
	return NewIndex(notes)
}

// IsLastRevision indexes n's root and checks n against it.
func (r *Resolver) IsLastRevision(ctx context.Context, n *core.Note) (bool, error) {
	idx, err := r.IndexFor(ctx, n)
	if err != nil {
		return false, err
	}
	return idx.IsLastRevision(n)
}
