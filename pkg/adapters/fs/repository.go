package fs

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

// Extension of the files the repository reads.
const Extension = ".md"

// Repository implements core.Store over an Obsidian-style vault of Markdown
// files with YAML frontmatter.
type Repository struct {
	Path       string
	config     Config
	cache      *cache
	serializer Serializer
	decoder    decoder

	mu            sync.RWMutex
	watcherActive bool
	lastScan      *time.Time
	lastScanNotes int
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	SystemDir string   // e.g. ".gonext"; holds the frontmatter cache
	Ignore    []string // doublestar patterns, relative to Path
	MustExist bool
	ReadOnly  bool
	Location  *time.Location // for dates without a zone; defaults to time.Local
	Logger    *slog.Logger
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = ".gonext"
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	return &Repository{
		Path:       config.Path,
		config:     config,
		cache:      newCache(config.Path, config.SystemDir),
		serializer: NewMarkdownSerializer(),
		decoder:    decoder{loc: config.Location, logger: config.Logger},
	}
}

// Initialize checks the vault directory and loads the cache.
func (r *Repository) Initialize(ctx context.Context) error {
	info, err := os.Stat(r.Path)
	switch {
	case os.IsNotExist(err) && (r.config.MustExist || r.config.ReadOnly):
		return errors.WithHint(
			errors.Newf("vault path does not exist: %s", r.Path),
			"pass --vault or run from inside a vault",
		)
	case os.IsNotExist(err):
		if err := os.MkdirAll(r.Path, 0o755); err != nil {
			return errors.Wrap(err, "failed to create vault directory")
		}
	case err != nil:
		return errors.Wrap(err, "failed to stat vault")
	case !info.IsDir():
		return errors.Newf("vault path is not a directory: %s", r.Path)
	}

	for _, p := range r.config.Ignore {
		if !doublestar.ValidatePattern(p) {
			return errors.Newf("invalid ignore pattern %q", p)
		}
	}

	if err := r.cache.Load(); err != nil {
		r.config.Logger.Warn("discarding unreadable cache", "path", r.cache.Path, "error", err)
	}
	return nil
}

// Get returns the note stored at id. Files that do not decode into a note
// are reported as not found.
func (r *Repository) Get(ctx context.Context, id string) (*core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id = strings.Trim(id, "/")
	rel := id + Extension
	if r.hidden(rel) {
		return nil, errors.Wrapf(core.ErrNotFound, "%s is ignored", id)
	}
	info, err := os.Stat(r.abs(rel))
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(core.ErrNotFound, "%s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", id)
	}

	meta, err := r.metadata(rel, info)
	if err != nil {
		return nil, err
	}
	n, err := r.decoder.decode(id, meta)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s is not a note", id), core.ErrNotFound)
	}
	return n, nil
}

// List returns every note of the vault, sorted by ID.
func (r *Repository) List(ctx context.Context) ([]*core.Note, error) {
	return r.scan(ctx, "", nil)
}

// ByPathPrefix returns the notes under a folder. A prefix containing glob
// metacharacters is matched as a doublestar pattern against note IDs.
func (r *Repository) ByPathPrefix(ctx context.Context, prefix string) ([]*core.Note, error) {
	prefix = strings.Trim(prefix, "/")
	if isPattern(prefix) {
		if !doublestar.ValidatePattern(prefix) {
			return nil, errors.Newf("invalid pattern %q", prefix)
		}
		return r.scan(ctx, "", func(n *core.Note) bool {
			ok, _ := doublestar.Match(prefix, n.ID)
			return ok
		})
	}
	return r.scan(ctx, prefix, nil)
}

// ByTag returns the notes carrying tag or one of its sub-tags.
func (r *Repository) ByTag(ctx context.Context, tag string) ([]*core.Note, error) {
	return r.scan(ctx, "", func(n *core.Note) bool { return n.HasTag(tag) })
}

// ByPredicate returns the notes for which keep returns true.
func (r *Repository) ByPredicate(ctx context.Context, keep func(*core.Note) bool) ([]*core.Note, error) {
	return r.scan(ctx, "", keep)
}

// Save writes n as a Markdown file at n.ID.
func (r *Repository) Save(ctx context.Context, n *core.Note, body string) error {
	if r.config.ReadOnly {
		return errors.Wrapf(core.ErrReadOnly, "cannot save %s", n.ID)
	}
	if n.ID == "" {
		return errors.Wrap(core.ErrMissingField, "note id is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := r.serializer.Serialize(Document{Metadata: encode(n), Body: body})
	if err != nil {
		return errors.Wrapf(err, "failed to serialize %s", n.ID)
	}
	rel := strings.Trim(n.ID, "/") + Extension
	target := r.abs(rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrap(err, "failed to create note directory")
	}
	if err := writeFileAtomic(target, data, 0o644); err != nil {
		return err
	}
	r.cache.Delete(rel)
	return nil
}

// Flush persists the frontmatter cache. Read-only repositories skip it.
func (r *Repository) Flush() error {
	if r.config.ReadOnly {
		return nil
	}
	return r.cache.Save()
}

// scan walks root (a slash folder, "" for the whole vault) and decodes every
// note. Files without a known note type are skipped.
func (r *Repository) scan(ctx context.Context, root string, keep func(*core.Note) bool) ([]*core.Note, error) {
	start := filepath.Join(r.Path, filepath.FromSlash(root))
	if _, err := os.Stat(start); os.IsNotExist(err) {
		return nil, nil
	}

	var notes []*core.Note
	seen := make(map[string]bool)
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(r.Path, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && r.ignored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if r.ignored(rel, false) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		seen[rel] = true
		meta, err := r.metadata(rel, info)
		if err != nil {
			r.config.Logger.Warn("skipping unreadable file", "path", rel, "error", err)
			return nil
		}
		id := strings.TrimSuffix(rel, Extension)
		n, err := r.decoder.decode(id, meta)
		if err != nil {
			if _, typed := meta[keyType]; typed {
				r.config.Logger.Warn("skipping note", "id", id, "error", err)
			} else {
				r.config.Logger.Debug("skipping untyped file", "id", id)
			}
			return nil
		}
		if keep == nil || keep(n) {
			notes = append(notes, n)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan vault")
	}

	if root == "" {
		r.cache.Prune(seen)
		r.recordScan(len(notes))
	}
	core.SortByID(notes)
	return notes, nil
}

// metadata returns the frontmatter of rel, from the cache when fresh.
func (r *Repository) metadata(rel string, info fs.FileInfo) (map[string]any, error) {
	if entry, ok := r.cache.Get(rel, info.ModTime()); ok {
		return entry.Metadata, nil
	}
	data, err := os.ReadFile(r.abs(rel))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", rel)
	}
	doc, err := r.serializer.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", rel)
	}
	r.cache.Set(rel, &indexEntry{
		ID:           strings.TrimSuffix(rel, Extension),
		Metadata:     doc.Metadata,
		LastModified: info.ModTime(),
	})
	return doc.Metadata, nil
}

// ignored reports whether a slash path relative to the vault is excluded:
// hidden entries (system dir, .obsidian, .trash), temp files, non-notes and
// user patterns.
func (r *Repository) ignored(rel string, dir bool) bool {
	base := path.Base(rel)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if !dir && (isTempFile(base) || path.Ext(base) != Extension) {
		return true
	}
	for _, p := range r.config.Ignore {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// hidden reports whether a scan would skip rel or any folder above it.
func (r *Repository) hidden(rel string) bool {
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if r.ignored(dir, true) {
			return true
		}
	}
	return r.ignored(rel, false)
}

func (r *Repository) abs(rel string) string {
	return filepath.Join(r.Path, filepath.FromSlash(rel))
}

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

var (
	_ core.Store     = (*Repository)(nil)
	_ core.Writer    = (*Repository)(nil)
	_ core.Watchable = (*Repository)(nil)
)
