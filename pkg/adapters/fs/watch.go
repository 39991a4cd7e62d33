package fs

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

// DebounceDelay coalesces the burst of events an editor produces on save.
var DebounceDelay = 50 * time.Millisecond

// Watch reports note changes whose ID matches pattern (doublestar syntax,
// "" for every note). The channel closes once ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Newf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create watcher")
	}
	if err := r.watchTree(watcher, r.Path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan core.Event)
	d := newDebouncer(DebounceDelay)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer func() {
			d.stop()
			_ = watcher.Close()
			r.setWatcherActive(false)
			close(out)
		}()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				e, ok := r.translate(watcher, ev, pattern)
				if !ok {
					continue
				}
				r.cache.Delete(e.ID + Extension)
				d.add(e, func(e core.Event) {
					select {
					case out <- e:
					case <-ctx.Done():
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				r.config.Logger.Error("watcher error", "error", err)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		r.config.Logger.Error("watcher stopped", "error", err)
	}))

	return out, nil
}

// translate maps an fsnotify event onto a note event. New directories are
// added to the watcher on the way.
func (r *Repository) translate(w *fsnotify.Watcher, ev fsnotify.Event, pattern string) (core.Event, bool) {
	rel, err := filepath.Rel(r.Path, ev.Name)
	if err != nil {
		return core.Event{}, false
	}
	rel = filepath.ToSlash(rel)
	r.config.Logger.Debug("event received", "path", rel, "op", ev.Op.String())

	if ev.Has(fsnotify.Create) && filepath.Ext(rel) != Extension {
		if err := r.watchTree(w, ev.Name); err != nil {
			r.config.Logger.Debug("cannot watch new path", "path", rel, "error", err)
		}
	}
	if r.ignored(rel, false) {
		return core.Event{}, false
	}

	var t core.EventType
	switch {
	case ev.Has(fsnotify.Create):
		t = core.EventCreate
	case ev.Has(fsnotify.Write):
		t = core.EventModify
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		t = core.EventDelete
	default:
		return core.Event{}, false
	}

	id := strings.TrimSuffix(rel, Extension)
	if ok, _ := doublestar.Match(pattern, id); !ok {
		return core.Event{}, false
	}
	return core.Event{Type: t, ID: id, Timestamp: time.Now().Unix()}, true
}

// watchTree adds root and every non-ignored directory below it.
func (r *Repository) watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.Path, p)
		if err != nil {
			return err
		}
		if rel = filepath.ToSlash(rel); rel != "." && r.ignored(rel, true) {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			return errors.Wrapf(err, "failed to watch %s", rel)
		}
		return nil
	})
}

// debouncer fires only the last event seen for an ID within the delay.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[e.ID]; ok && t.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.timers[e.ID] == t {
			delete(d.timers, e.ID)
		}
		d.mu.Unlock()
		fire(e)
	})
	d.timers[e.ID] = t
}

// stop cancels pending events and waits for the ones already firing.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	for id, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, id)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
