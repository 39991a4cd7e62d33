// Package memory implements core.Store over an in-process slice of notes.
// It backs tests, embedding, and snapshots loaded from other stores.
package memory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

// Store holds notes keyed by ID. Reads return notes in ID order.
type Store struct {
	mu    sync.RWMutex
	notes map[string]*core.Note
}

// New creates a store seeded with notes.
func New(notes ...*core.Note) *Store {
	s := &Store{notes: make(map[string]*core.Note, len(notes))}
	for _, n := range notes {
		s.notes[n.ID] = n
	}
	return s
}

// Put adds or replaces a note.
func (s *Store) Put(n *core.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[n.ID] = n
}

// Save implements core.Writer. The body is discarded.
func (s *Store) Save(ctx context.Context, n *core.Note, body string) error {
	if n.ID == "" {
		return errors.Wrap(core.ErrMissingField, "note id is required")
	}
	s.Put(n)
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*core.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	if !ok {
		return nil, errors.Wrapf(core.ErrNotFound, "%s", id)
	}
	return n, nil
}

func (s *Store) List(ctx context.Context) ([]*core.Note, error) {
	return s.ByPredicate(ctx, func(*core.Note) bool { return true })
}

func (s *Store) ByPathPrefix(ctx context.Context, prefix string) ([]*core.Note, error) {
	return s.ByPredicate(ctx, func(n *core.Note) bool { return core.UnderPrefix(n.ID, prefix) })
}

func (s *Store) ByTag(ctx context.Context, tag string) ([]*core.Note, error) {
	return s.ByPredicate(ctx, func(n *core.Note) bool { return n.HasTag(tag) })
}

func (s *Store) ByPredicate(ctx context.Context, keep func(*core.Note) bool) ([]*core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if keep(n) {
			out = append(out, n)
		}
	}
	core.SortByID(out)
	return out, nil
}

// Len returns the number of notes held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

var (
	_ core.Store  = (*Store)(nil)
	_ core.Writer = (*Store)(nil)
)

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string { return "memory" }
