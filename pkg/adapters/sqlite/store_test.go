package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/adapters/memory"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

func fixture() []*core.Note {
	after := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	return []*core.Note{
		{ID: "Tasks/t1", UUID: "t1", Title: "One", Type: core.TypeTask, Status: core.StatusTodo,
			Tags: core.ParseTags([]string{"area/work", "domain/dev"}), Needs: []string{"t2", "t3"}, After: &after, Priority: 3},
		{ID: "Tasks/t2", UUID: "t2", Type: core.TypeTask, Status: core.StatusDone},
		{ID: "Resources/r_1", UUID: "r_1", Type: core.TypeResource, Next: "r2",
			Tags: core.ParseTags([]string{"component/go/test"})},
		{ID: "Resources/r2", UUID: "r2", Type: core.TypeResource, Tags: core.ParseTags([]string{"component/gopher"})},
	}
}

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "snap", "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Import(context.Background(), fixture()))
	return s
}

func ids(notes []*core.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestStore_MatchesMemoryStore(t *testing.T) {
	ctx := context.Background()
	snap := openTest(t)
	mem := memory.New(fixture()...)

	queries := map[string]func(core.Store) ([]*core.Note, error){
		"list":      func(s core.Store) ([]*core.Note, error) { return s.List(ctx) },
		"prefix":    func(s core.Store) ([]*core.Note, error) { return s.ByPathPrefix(ctx, "Tasks/") },
		"tag":       func(s core.Store) ([]*core.Note, error) { return s.ByTag(ctx, "component/go") },
		"tag exact": func(s core.Store) ([]*core.Note, error) { return s.ByTag(ctx, "#area/work") },
		"predicate": func(s core.Store) ([]*core.Note, error) {
			return s.ByPredicate(ctx, func(n *core.Note) bool { return n.Status == core.StatusDone })
		},
	}
	for name, q := range queries {
		t.Run(name, func(t *testing.T) {
			want, err := q(mem)
			require.NoError(t, err)
			got, err := q(snap)
			require.NoError(t, err)
			assert.Equal(t, ids(want), ids(got))
		})
	}
}

func TestStore_QueriesAreCaseSensitive(t *testing.T) {
	ctx := context.Background()
	notes := []*core.Note{
		{ID: "Tasks/a", UUID: "a", Type: core.TypeTask, Tags: core.ParseTags([]string{"area/work"})},
		{ID: "tasks/b", UUID: "b", Type: core.TypeTask, Tags: core.ParseTags([]string{"AREA/WORK/x"})},
		{ID: "Permanent/p1", UUID: "p1", Type: core.TypePermanent},
		{ID: "permanent/p2", UUID: "p2", Type: core.TypePermanent},
	}
	snap, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer snap.Close()
	require.NoError(t, snap.Import(ctx, notes))
	mem := memory.New(notes...)

	tests := []struct {
		name string
		q    func(core.Store) ([]*core.Note, error)
		want []string
	}{
		{"prefix", func(s core.Store) ([]*core.Note, error) { return s.ByPathPrefix(ctx, "Tasks") }, []string{"Tasks/a"}},
		{"lower prefix", func(s core.Store) ([]*core.Note, error) { return s.ByPathPrefix(ctx, "permanent") }, []string{"permanent/p2"}},
		{"tag", func(s core.Store) ([]*core.Note, error) { return s.ByTag(ctx, "area/work") }, []string{"Tasks/a"}},
		{"upper tag", func(s core.Store) ([]*core.Note, error) { return s.ByTag(ctx, "AREA/WORK") }, []string{"tasks/b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := tt.q(mem)
			require.NoError(t, err)
			got, err := tt.q(snap)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(want))
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestStore_StateReportsQueryError(t *testing.T) {
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	state := s.State().(StoreState)
	assert.Zero(t, state.Notes)
	assert.NotEmpty(t, state.Error)
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	n, err := s.Get(ctx, "Tasks/t1")
	require.NoError(t, err)
	assert.Equal(t, "One", n.Title)
	assert.Equal(t, []string{"area/work", "domain/dev"}, n.RawTags())
	assert.Equal(t, []string{"t2", "t3"}, n.Needs)
	assert.Equal(t, 3.0, n.Priority)
	require.NotNil(t, n.After)
	assert.Equal(t, 8, n.After.Hour())
	assert.Nil(t, n.CreatedAt)

	_, err = s.Get(ctx, "Tasks/none")
	assert.True(t, core.IsNotFound(err))
}

func TestStore_LikeWildcardsAreLiteral(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	got, err := s.ByPathPrefix(ctx, "Resource_")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_ImportReplacesAndSaveUpserts(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	require.NoError(t, s.Import(ctx, fixture()[:1]))
	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tasks/t1"}, ids(all))

	require.NoError(t, s.Save(ctx, &core.Note{ID: "Tasks/t1", UUID: "t1", Type: core.TypeTask, Status: core.StatusDone}, ""))
	n, err := s.Get(ctx, "Tasks/t1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusDone, n.Status)
	assert.Empty(t, n.Needs)

	assert.ErrorIs(t, s.Save(ctx, &core.Note{}, ""), core.ErrMissingField)

	state := s.State().(StoreState)
	assert.Equal(t, 1, state.Notes)
	assert.Empty(t, state.Error)
	assert.NotNil(t, state.ImportedAt)
	assert.Equal(t, "snapshot", s.ComponentType())
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Import(context.Background(), fixture()))
	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
