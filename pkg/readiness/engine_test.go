package readiness

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/adapters/memory"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func task(uuid string, status core.Status, needs ...string) *core.Note {
	return &core.Note{ID: "Tasks/" + uuid, UUID: uuid, Type: core.TypeTask, Status: status, Needs: needs}
}

func engine(notes ...*core.Note) *Engine {
	e := New(memory.New(notes...), "Tasks", nil)
	e.Now = func() time.Time { return now }
	return e
}

func TestIsDoable(t *testing.T) {
	ctx := context.Background()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	media := &core.Note{ID: "Tasks/m1", UUID: "m1", Type: core.TypeMedia, Status: core.StatusTodo}
	praxis := &core.Note{ID: "Tasks/p1", UUID: "p1", Type: core.TypePraxis, Status: core.StatusTodo}
	provisionDone := &core.Note{ID: "Tasks/v1", UUID: "v1", Type: core.TypeProvision, Status: core.StatusDone}
	depTodo := task("d1", core.StatusTodo)
	depDoing := task("d2", core.StatusDoing)

	gated := func(after time.Time) *core.Note {
		n := task("g", core.StatusTodo)
		n.After = &after
		return n
	}

	tests := []struct {
		name string
		task *core.Note
		want bool
	}{
		{"todo without needs", task("t", core.StatusTodo), true},
		{"doing is not doable", task("t", core.StatusDoing), false},
		{"done is not doable", task("t", core.StatusDone), false},
		{"no status", task("t", core.StatusNone), false},
		{"after in the future", gated(future), false},
		{"after exactly now", gated(now), false},
		{"after in the past", gated(past), true},
		{"todo dependency blocks", task("t", core.StatusTodo, "d1"), false},
		{"doing dependency does not block", task("t", core.StatusTodo, "d2"), true},
		{"ignored type does not block", task("t", core.StatusTodo, "m1"), true},
		{"praxis dependency blocks", task("t", core.StatusTodo, "p1"), false},
		{"done provision does not block", task("t", core.StatusTodo, "v1"), true},
		{"dangling dependency skipped", task("t", core.StatusTodo, "missing"), true},
		{"any todo blocks", task("t", core.StatusTodo, "missing", "d2", "d1"), false},
	}

	e := engine(media, praxis, provisionDone, depTodo, depDoing)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.IsDoable(ctx, tt.task)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsDoable_DirectDependenciesOnly(t *testing.T) {
	// t -> a (done) -> b (todo): b is not considered.
	b := task("b", core.StatusTodo)
	a := task("a", core.StatusDone, "b")
	tk := task("t", core.StatusTodo, "a")

	got, err := engine(a, b, tk).IsDoable(context.Background(), tk)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestIsDoable_FlipDependency(t *testing.T) {
	ctx := context.Background()
	t1 := task("t1", core.StatusTodo)
	t2 := task("t2", core.StatusTodo, "t1")
	store := memory.New(t1, t2)
	e := New(store, "Tasks", nil)

	got, err := e.IsDoable(ctx, t2)
	require.NoError(t, err)
	assert.False(t, got)

	store.Put(task("t1", core.StatusDone))
	got, err = e.IsDoable(ctx, t2)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestPendingDependencies(t *testing.T) {
	d1 := task("d1", core.StatusTodo)
	d2 := task("d2", core.StatusTodo)
	tk := task("t", core.StatusTodo, "d1", "x", "d2")

	got, err := engine(d1, d2, tk).PendingDependencies(context.Background(), tk)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "d1", got[0].UUID)
	assert.Equal(t, "d2", got[1].UUID)
}

type failingStore struct{ core.Store }

func (failingStore) Get(context.Context, string) (*core.Note, error) {
	return nil, errors.New("disk on fire")
}

func TestIsDoable_StoreErrorPropagates(t *testing.T) {
	e := New(failingStore{}, "Tasks", nil)
	_, err := e.IsDoable(context.Background(), task("t", core.StatusTodo, "d1"))
	assert.ErrorContains(t, err, "disk on fire")
}
