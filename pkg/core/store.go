package core

import (
	"context"
	"slices"
	"strings"
)

// Store is the read surface the engine needs from a note collection.
// Implementations return materialized slices; callers must not mutate the notes.
type Store interface {
	// Get returns the note stored at id (path without extension).
	// A missing note yields an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (*Note, error)

	// List returns every note in the store.
	List(ctx context.Context) ([]*Note, error)

	// ByPathPrefix returns the notes stored under prefix (a folder).
	ByPathPrefix(ctx context.Context, prefix string) ([]*Note, error)

	// ByTag returns the notes carrying tag or one of its sub-tags.
	ByTag(ctx context.Context, tag string) ([]*Note, error)

	// ByPredicate returns the notes for which keep returns true.
	ByPredicate(ctx context.Context, keep func(*Note) bool) ([]*Note, error)
}

// Writer is implemented by stores that accept new notes.
type Writer interface {
	Save(ctx context.Context, n *Note, body string) error
}

// Watchable is implemented by stores that can report changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// EventType represents the type of change in the vault.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the vault.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string { return string(e.Type) + " " + e.ID }

// UnderPrefix reports whether id sits inside the folder prefix.
// An empty prefix matches everything.
func UnderPrefix(id, prefix string) bool {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return true
	}
	return strings.HasPrefix(id, prefix+"/")
}

// SortByID orders notes by store path, in place.
func SortByID(notes []*Note) {
	slices.SortFunc(notes, func(a, b *Note) int { return strings.Compare(a.ID, b.ID) })
}
