package ontology

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/adapters/memory"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/revision"
)

func res(uuid string, tags ...string) *core.Note {
	return &core.Note{ID: "Resources/" + uuid, UUID: uuid, Type: core.TypeResource, Tags: core.ParseTags(tags)}
}

func ids(notes []*core.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.UUID
	}
	return out
}

func keys(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key
	}
	return out
}

func TestGroup(t *testing.T) {
	a := res("a", "x")
	b := res("b", "y")
	c := res("c", "x", "y")

	buckets := Group([]*core.Note{c, b, a}, func(n *core.Note) []string {
		return append(n.RawTags(), n.RawTags()...) // duplicate keys collapse
	})
	require.Len(t, buckets, 2)
	assert.Equal(t, "x", buckets[0].Key)
	assert.Equal(t, []string{"c", "a"}, ids(buckets[0].Notes))
	assert.Equal(t, "y", buckets[1].Key)
	assert.Equal(t, []string{"c", "b"}, ids(buckets[1].Notes))
}

func TestByDomain(t *testing.T) {
	notes := []*core.Note{
		res("a", "domain/dev", "component/go/test"),
		res("b", "domain/dev", "component/go"),
		res("c", "domain/dev", "component/go/test", "component/cli"),
		res("d", "domain/ops"),
		res("e", "component/go"),
	}

	forest := ByDomain(notes)
	assert.Equal(t, []string{"domain/dev", "domain/none", "domain/ops"}, keys(forest))

	dev := Find(forest, "domain/dev")
	require.NotNil(t, dev)
	assert.Equal(t, []string{"component/cli", "component/go"}, keys(dev.Children))

	goNode := dev.Find("component/go")
	require.NotNil(t, goNode)
	assert.Equal(t, []string{"", "test"}, keys(goNode.Children))
	assert.Equal(t, []string{"b"}, ids(goNode.Find("").Notes))
	assert.Equal(t, []string{"a", "c"}, ids(goNode.Find("test").Notes))

	ops := Find(forest, "domain/ops", NoComponent, "")
	require.NotNil(t, ops)
	assert.Equal(t, []string{"d"}, ids(ops.Notes))

	assert.Equal(t, 4, dev.Count())
}

func TestByComponent_MergesDomains(t *testing.T) {
	notes := []*core.Note{
		res("a", "domain/dev", "component/go/test"),
		res("b", "domain/ops", "component/go/test"),
		res("c", "domain/dev", "component/go/test"),
	}

	forest := ByComponent(notes)
	assert.Equal(t, []string{"component/go"}, keys(forest))

	test := Find(forest, "component/go", "test")
	require.NotNil(t, test)
	assert.Equal(t, []string{"domain/dev", "domain/ops"}, keys(test.Children))
	assert.Equal(t, []string{"a", "c"}, ids(test.Find("domain/dev").Notes))
}

func TestBySignature(t *testing.T) {
	a := res("a", "domain/dev", "component/go", "component/cli")
	b := res("b", "component/cli", "domain/dev", "component/go")
	c := res("c", "domain/dev", "component/go")
	dup := res("a", "domain/ops")

	groups := BySignature([]*core.Note{c, a, b, dup})
	require.Len(t, groups, 2)
	assert.Equal(t, "domain/dev\ncomponent/cli\ncomponent/go", groups[0].Signature)
	assert.Equal(t, []string{"a", "b"}, ids(groups[0].Notes))
	assert.Equal(t, "domain/dev", groups[0].Domain)
	assert.Equal(t, []string{"component/cli", "component/go"}, groups[0].Components)
	assert.Equal(t, []string{"c"}, ids(groups[1].Notes))
}

func TestBySignature_ComponentChangeMovesNote(t *testing.T) {
	a := res("a", "domain/dev", "component/go")
	b := res("b", "domain/dev", "component/go")
	assert.Len(t, BySignature([]*core.Note{a, b}), 1)

	b2 := res("b", "domain/dev", "component/go/test")
	assert.Len(t, BySignature([]*core.Note{a, b2}), 2)
}

func domainNote(id string, tags ...string) *core.Note {
	return &core.Note{ID: "Domains/" + id, UUID: id, Type: core.TypeDomain, Tags: core.ParseTags(tags)}
}

func TestIndexAreaDomainMap(t *testing.T) {
	m, err := IndexAreaDomainMap([]*core.Note{
		domainNote("d1", "name/dev", "area/work", "area/learning"),
		domainNote("d2", "name/ops", "area/work"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"area/learning", "area/work"}, m.DomainAreas["domain/dev"])
	assert.Equal(t, []string{"domain/dev", "domain/ops"}, m.AreaDomains["area/work"])
	assert.Equal(t, []string{"area/learning", "area/work"}, m.Areas())
	assert.Equal(t, []string{NoArea}, m.AreasOf("domain/unknown"))
}

func TestIndexAreaDomainMap_Invalid(t *testing.T) {
	_, err := IndexAreaDomainMap([]*core.Note{domainNote("d1", "area/work")})
	assert.ErrorIs(t, err, core.ErrInvalidDomain)

	_, err = IndexAreaDomainMap([]*core.Note{domainNote("d1", "name/dev")})
	assert.ErrorIs(t, err, core.ErrInvalidDomain)
	assert.True(t, core.IsFatal(err))
}

func TestIndexCommon(t *testing.T) {
	m, err := IndexAreaDomainMap([]*core.Note{
		domainNote("d1", "name/dev", "area/work", "area/learning"),
	})
	require.NoError(t, err)

	notes := []*core.Note{
		res("a", "domain/dev", "component/go"),
		res("b", "domain/misc"),
	}
	forest := IndexCommon(notes, m)
	assert.Equal(t, []string{"area/learning", NoArea, "area/work"}, keys(forest))

	work := Find(forest, "area/work", "domain/dev", "component/go")
	require.NotNil(t, work)
	assert.Equal(t, []string{"a"}, ids(work.Notes))

	none := Find(forest, NoArea, "domain/misc", NoComponent)
	require.NotNil(t, none)
	assert.Equal(t, []string{"b"}, ids(none.Notes))
}

func TestLocator_Match(t *testing.T) {
	task := &core.Note{UUID: "t", Type: core.TypeTask, Status: core.StatusTrash,
		Tags: core.ParseTags([]string{"domain/dev", "component/go"})}
	media := &core.Note{UUID: "m", Type: core.TypeMedia, Status: core.StatusDone}
	r := res("r", "domain/dev", "component/go/test", "component/cli")

	tests := []struct {
		name string
		l    Locator
		n    *core.Note
		want bool
	}{
		{"empty locator", Locator{}, r, true},
		{"type excluded", Locator{Types: []core.NoteType{core.TypePermanent}}, r, false},
		{"all components required", Locator{Components: []string{"component/go", "component/db"}}, r, false},
		{"sub-tag satisfies component", Locator{Components: []string{"component/go"}}, r, true},
		{"threshold lowered", Locator{Components: []string{"component/go", "component/db"}, MinComponents: 1}, r, true},
		{"domain exact", Locator{Domains: []string{"domain/dev"}}, r, true},
		{"domain mismatch", Locator{Domains: []string{"domain/de"}}, r, false},
		{"dropped status", Locator{DropStatus: []core.Status{core.StatusTrash}}, task, false},
		{"dropped media status", Locator{DropStatus: []core.Status{core.StatusDone}}, media, false},
		{"status ignored for resources", Locator{DropStatus: []core.Status{core.StatusNone}}, r, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.l.Match(tt.n))
		})
	}
}

func TestLocator_LocateKeepsLatestRevision(t *testing.T) {
	old := res("old", "domain/dev")
	old.Next = "new"
	latest := res("new", "domain/dev")
	task := &core.Note{ID: "Tasks/t", UUID: "t", Type: core.TypeTask, Status: core.StatusTodo,
		Tags: core.ParseTags([]string{"domain/dev"})}

	store := memory.New(old, latest, task)
	r := &revision.Resolver{Store: store, PermanentRoot: "Permanent", ResourceRoot: "Resources"}

	got, err := Locator{Domains: []string{"domain/dev"}}.Locate(context.Background(), []*core.Note{old, latest, task}, r)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "t"}, ids(got))
}

func TestLocator_Normalized(t *testing.T) {
	l := Locator{Components: []string{"go"}, Domains: []string{"dev", "domain/ops"}}.Normalized()
	assert.Equal(t, []string{"component/go"}, l.Components)
	assert.Equal(t, []string{"domain/dev", "domain/ops"}, l.Domains)
}
