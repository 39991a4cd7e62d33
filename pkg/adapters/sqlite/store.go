// Package sqlite persists a snapshot of a vault in a SQLite database, so
// reports can run without re-reading the Markdown files.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Store implements core.Store over a snapshot database.
type Store struct {
	db   *sql.DB
	path string

	mu         sync.RWMutex
	importedAt *time.Time
}

// Open creates or opens the snapshot at path. ":memory:" keeps it in memory.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "sqlite: create data dir")
		}
	}
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite: open database")
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "sqlite: pragma %q", p)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "sqlite: migration")
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS notes (
			id            TEXT PRIMARY KEY,
			uuid          TEXT NOT NULL,
			title         TEXT NOT NULL DEFAULT '',
			type          TEXT NOT NULL,
			status        TEXT NOT NULL DEFAULT '',
			created_at    TEXT,
			done_at       TEXT,
			before_at     TEXT,
			after_at      TEXT,
			priority      REAL NOT NULL DEFAULT 0,
			time_estimate TEXT NOT NULL DEFAULT '',
			next          TEXT NOT NULL DEFAULT '',
			parent_id     TEXT NOT NULL DEFAULT '',
			ref_id        TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_notes_uuid ON notes(uuid);
		CREATE INDEX IF NOT EXISTS idx_notes_type ON notes(type);

		CREATE TABLE IF NOT EXISTS note_tags (
			note_id  TEXT    NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			tag      TEXT    NOT NULL,
			PRIMARY KEY (note_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_tags_tag ON note_tags(tag);

		CREATE TABLE IF NOT EXISTS note_needs (
			note_id  TEXT    NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			uuid     TEXT    NOT NULL,
			PRIMARY KEY (note_id, position)
		);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Import replaces the snapshot content with notes, in one transaction.
func (s *Store) Import(ctx context.Context, notes []*core.Note) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "sqlite: begin import")
	}
	defer tx.Rollback()

	for _, table := range []string{"note_tags", "note_needs", "notes"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return errors.Wrap(err, "sqlite: clear snapshot")
		}
	}
	for _, n := range notes {
		if err := insert(ctx, tx, n); err != nil {
			return errors.Wrapf(err, "sqlite: import %s", n.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "sqlite: commit import")
	}

	now := time.Now()
	s.mu.Lock()
	s.importedAt = &now
	s.mu.Unlock()
	return nil
}

// Save inserts or replaces a single note. The body is not stored.
func (s *Store) Save(ctx context.Context, n *core.Note, _ string) error {
	if n.ID == "" {
		return errors.Wrap(core.ErrMissingField, "note id is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "sqlite: begin save")
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM note_tags WHERE note_id = ?`,
		`DELETE FROM note_needs WHERE note_id = ?`,
		`DELETE FROM notes WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, n.ID); err != nil {
			return errors.Wrapf(err, "sqlite: replace %s", n.ID)
		}
	}
	if err := insert(ctx, tx, n); err != nil {
		return errors.Wrapf(err, "sqlite: save %s", n.ID)
	}
	return tx.Commit()
}

func insert(ctx context.Context, tx *sql.Tx, n *core.Note) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO notes (id, uuid, title, type, status, created_at, done_at, before_at, after_at,
			priority, time_estimate, next, parent_id, ref_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UUID, n.Title, string(n.Type), string(n.Status),
		formatTime(n.CreatedAt), formatTime(n.DoneAt), formatTime(n.Before), formatTime(n.After),
		n.Priority, n.TimeEstimate, n.Next, n.ParentID, n.RefID,
	)
	if err != nil {
		return err
	}
	for i, t := range n.Tags {
		if _, err := tx.ExecContext(ctx, `INSERT INTO note_tags (note_id, position, tag) VALUES (?, ?, ?)`, n.ID, i, t.Raw); err != nil {
			return err
		}
	}
	for i, dep := range n.Needs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO note_needs (note_id, position, uuid) VALUES (?, ?, ?)`, n.ID, i, dep); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the note stored at id.
func (s *Store) Get(ctx context.Context, id string) (*core.Note, error) {
	notes, err := s.query(ctx, `id = ?`, strings.Trim(id, "/"))
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, errors.Wrapf(core.ErrNotFound, "%s", id)
	}
	return notes[0], nil
}

// List returns every note of the snapshot, sorted by ID.
func (s *Store) List(ctx context.Context) ([]*core.Note, error) {
	return s.query(ctx, `1 = 1`)
}

// ByPathPrefix returns the notes stored under a folder.
func (s *Store) ByPathPrefix(ctx context.Context, prefix string) ([]*core.Note, error) {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return s.List(ctx)
	}
	prefix += "/"
	return s.query(ctx, `substr(id, 1, length(?)) = ?`, prefix, prefix)
}

// ByTag returns the notes carrying tag or one of its sub-tags.
func (s *Store) ByTag(ctx context.Context, tag string) ([]*core.Note, error) {
	tag = strings.TrimPrefix(tag, "#")
	return s.query(ctx,
		`id IN (SELECT note_id FROM note_tags WHERE tag = ? OR substr(tag, 1, length(?)) = ?)`,
		tag, tag+"/", tag+"/",
	)
}

// ByPredicate returns the notes for which keep returns true.
func (s *Store) ByPredicate(ctx context.Context, keep func(*core.Note) bool) ([]*core.Note, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, n := range all {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// query loads the notes matching where, then their tags and needs.
// where is a trusted SQL fragment over the notes table.
func (s *Store) query(ctx context.Context, where string, args ...any) ([]*core.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, uuid, title, type, status, created_at, done_at, before_at, after_at,
			priority, time_estimate, next, parent_id, ref_id
		FROM notes WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite: query notes")
	}
	defer rows.Close()

	var notes []*core.Note
	byID := make(map[string]*core.Note)
	for rows.Next() {
		var (
			n                            core.Note
			typ, status                  string
			created, done, before, after sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.UUID, &n.Title, &typ, &status, &created, &done, &before, &after,
			&n.Priority, &n.TimeEstimate, &n.Next, &n.ParentID, &n.RefID); err != nil {
			return nil, errors.Wrap(err, "sqlite: scan note")
		}
		n.Type = core.NoteType(typ)
		n.Status = core.Status(status)
		n.CreatedAt = parseTime(created)
		n.DoneAt = parseTime(done)
		n.Before = parseTime(before)
		n.After = parseTime(after)
		notes = append(notes, &n)
		byID[n.ID] = &n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "sqlite: iterate notes")
	}
	rows.Close()
	if len(notes) == 0 {
		return nil, nil
	}

	tags := make(map[string][]string)
	if err := s.relation(ctx, "note_tags", "tag", where, args, func(id, v string) {
		tags[id] = append(tags[id], v)
	}); err != nil {
		return nil, err
	}
	for id, raw := range tags {
		byID[id].Tags = core.ParseTags(raw)
	}
	if err := s.relation(ctx, "note_needs", "uuid", where, args, func(id, v string) {
		byID[id].Needs = append(byID[id].Needs, v)
	}); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Store) relation(ctx context.Context, table, column, where string, args []any, add func(id, v string)) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT note_id, `+column+` FROM `+table+`
		WHERE note_id IN (SELECT id FROM notes WHERE `+where+`)
		ORDER BY note_id, position`, args...)
	if err != nil {
		return errors.Wrapf(err, "sqlite: query %s", table)
	}
	defer rows.Close()
	for rows.Next() {
		var id, v string
		if err := rows.Scan(&id, &v); err != nil {
			return errors.Wrapf(err, "sqlite: scan %s", table)
		}
		add(id, v)
	}
	return rows.Err()
}

// StoreState exposes snapshot state for observability.
type StoreState struct {
	Path       string     `json:"path"`
	Notes      int        `json:"notes"`
	ImportedAt *time.Time `json:"imported_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	st := StoreState{Path: s.path}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&st.Notes); err != nil {
		st.Error = err.Error()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	st.ImportedAt = s.importedAt
	return st
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "snapshot"
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func parseTime(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil
	}
	return &t
}

var (
	_ core.Store                   = (*Store)(nil)
	_ core.Writer                  = (*Store)(nil)
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
)
