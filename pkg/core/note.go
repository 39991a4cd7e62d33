package core

import (
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// NoteType is the closed set of note kinds found in a vault.
type NoteType string

const (
	TypeFleeting   NoteType = "fleeting"
	TypeLiterature NoteType = "literature"
	TypePermanent  NoteType = "permanent"
	TypeTask       NoteType = "task"
	TypePraxis     NoteType = "praxis"
	TypeProvision  NoteType = "provision"
	TypeLog        NoteType = "log"
	TypeResource   NoteType = "resource"
	TypeMedia      NoteType = "media"
	TypeOrg        NoteType = "org"
	TypeDomain     NoteType = "domain"
	TypeComponent  NoteType = "component"
	TypeProject    NoteType = "project"
)

var noteTypes = []NoteType{
	TypeFleeting, TypeLiterature, TypePermanent, TypeTask, TypePraxis,
	TypeProvision, TypeLog, TypeResource, TypeMedia, TypeOrg, TypeDomain,
	TypeComponent, TypeProject,
}

// ParseNoteType maps a frontmatter value onto a NoteType, ignoring case.
func ParseNoteType(s string) (NoteType, error) {
	t := NoteType(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(noteTypes, t) {
		return t, nil
	}
	return "", errors.Newf("unknown note type %q", s)
}

// IsActionable reports whether notes of this type carry a workflow status.
func (t NoteType) IsActionable() bool {
	return t == TypeTask || t == TypePraxis || t == TypeProvision
}

// Status is the workflow state of tasks, praxis and provisions.
type Status string

const (
	StatusNone    Status = ""
	StatusTodo    Status = "todo"
	StatusDoing   Status = "doing"
	StatusDone    Status = "done"
	StatusMaybe   Status = "maybe"
	StatusStandby Status = "standby"
	StatusTrash   Status = "trash"
)

var statuses = []Status{StatusTodo, StatusDoing, StatusDone, StatusMaybe, StatusStandby, StatusTrash}

// ParseStatus maps a frontmatter value onto a Status. Empty input yields StatusNone.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st == StatusNone || slices.Contains(statuses, st) {
		return st, nil
	}
	return "", errors.Newf("unknown status %q", s)
}

// Note is an immutable snapshot of a vault document.
// The store owns it; the engine only reads it.
type Note struct {
	ID    string // store path without extension, e.g. "Tasks/8c1f0a2e"
	UUID  string
	Title string

	Type   NoteType
	Status Status
	Tags   []Tag

	CreatedAt *time.Time
	DoneAt    *time.Time
	Before    *time.Time
	After     *time.Time

	Priority     float64
	TimeEstimate string
	Needs        []string
	Next         string
	ParentID     string
	RefID        string
}

// Key is the short display key of a note.
func (n *Note) Key() string {
	if len(n.UUID) <= 8 {
		return n.UUID
	}
	return n.UUID[:8]
}

// Label returns the title when set, the display key otherwise.
func (n *Note) Label() string {
	if n.Title != "" {
		return n.Title
	}
	return n.Key()
}

// RawTags returns the tags as written, in source order.
func (n *Note) RawTags() []string {
	out := make([]string, len(n.Tags))
	for i, t := range n.Tags {
		out[i] = t.Raw
	}
	return out
}

// SortedTags returns the raw tags sorted for display.
func (n *Note) SortedTags() []string {
	out := n.RawTags()
	slices.Sort(out)
	return out
}

// HasTag reports whether the note carries tag or one of its sub-tags.
func (n *Note) HasTag(tag string) bool {
	tag = strings.TrimPrefix(tag, "#")
	for _, t := range n.Tags {
		if t.Raw == tag || strings.HasPrefix(t.Raw, tag+"/") {
			return true
		}
	}
	return false
}
