// Package readiness decides whether a task can be worked on now.
package readiness

import (
	"context"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

// Engine evaluates task readiness against a store snapshot.
type Engine struct {
	Store    core.Store
	TaskRoot string // folder holding the notes referenced by needs
	Now      func() time.Time
	Logger   *slog.Logger
}

// New creates an Engine reading dependencies under taskRoot.
func New(store core.Store, taskRoot string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{Store: store, TaskRoot: taskRoot, Now: time.Now, Logger: logger}
}

// IsDoable reports whether task is actionable now.
//
// Rules, in order: the status must be Todo; an After gate must have passed
// strictly; then no direct dependency may still be Todo. Dependencies are
// checked one level deep only.
func (e *Engine) IsDoable(ctx context.Context, task *core.Note) (bool, error) {
	if task.Status != core.StatusTodo {
		return false, nil
	}
	if task.After != nil && !e.now().After(*task.After) {
		return false, nil
	}
	if len(task.Needs) == 0 {
		return true, nil
	}
	pending, err := e.HasPendingDependencies(ctx, task.Needs)
	if err != nil {
		return false, err
	}
	return !pending, nil
}

// HasPendingDependencies reports whether any direct dependency is still Todo.
func (e *Engine) HasPendingDependencies(ctx context.Context, needs []string) (bool, error) {
	blocking, err := e.pending(ctx, needs, true)
	if err != nil {
		return false, err
	}
	return len(blocking) > 0, nil
}

// PendingDependencies returns every direct dependency that is still Todo.
func (e *Engine) PendingDependencies(ctx context.Context, task *core.Note) ([]*core.Note, error) {
	return e.pending(ctx, task.Needs, false)
}

func (e *Engine) pending(ctx context.Context, needs []string, first bool) ([]*core.Note, error) {
	var out []*core.Note
	for _, id := range needs {
		dep, err := e.Store.Get(ctx, path.Join(e.TaskRoot, id))
		if err != nil {
			if core.IsNotFound(err) {
				e.Logger.Warn("dependency not found, skipping", "uuid", id, "root", e.TaskRoot)
				continue
			}
			return nil, errors.Wrapf(err, "dependency %s", id)
		}
		if !dep.Type.IsActionable() {
			continue
		}
		if dep.Status == core.StatusTodo {
			out = append(out, dep)
			if first {
				break
			}
		}
	}
	return out, nil
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
