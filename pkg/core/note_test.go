package core_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		raw  string
		want core.Tag
	}{
		{"area/work", core.Tag{Raw: "area/work", Namespace: "area", Value: "work"}},
		{"#context/home", core.Tag{Raw: "context/home", Namespace: "context", Value: "home"}},
		{"component/go/test/unit", core.Tag{Raw: "component/go/test/unit", Namespace: "component", Value: "go", Fragment: "test/unit"}},
		{"inbox", core.Tag{Raw: "inbox", Namespace: "inbox"}},
		{"area/", core.Tag{Raw: "area/", Namespace: "area"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, core.ParseTag(tt.raw))
		})
	}
}

func TestTag_In(t *testing.T) {
	assert.True(t, core.ParseTag("area/work").In("area"))
	assert.False(t, core.ParseTag("area/").In("area"))
	assert.False(t, core.ParseTag("areas/work").In("area"))
	assert.True(t, core.ParseTag("area//x").In("area"))
}

func TestParseTags_DropsBlanks(t *testing.T) {
	tags := core.ParseTags([]string{"area/work", "", "#", "context/any"})
	require.Len(t, tags, 2)
	assert.Equal(t, "context/any", tags[1].Raw)
}

func TestParseNoteType(t *testing.T) {
	typ, err := core.ParseNoteType("Permanent")
	require.NoError(t, err)
	assert.Equal(t, core.TypePermanent, typ)

	_, err = core.ParseNoteType("diary")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	st, err := core.ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, core.StatusNone, st)

	st, err = core.ParseStatus(" TODO ")
	require.NoError(t, err)
	assert.Equal(t, core.StatusTodo, st)

	_, err = core.ParseStatus("blocked")
	assert.Error(t, err)
}

func TestNote_KeyAndTags(t *testing.T) {
	n := &core.Note{
		UUID: "8c1f0a2e-1111-2222-3333-444455556666",
		Tags: core.ParseTags([]string{"domain/dev", "area/work", "component/go/test"}),
	}

	assert.Equal(t, "8c1f0a2e", n.Key())
	assert.Equal(t, "8c1f0a2e", n.Label())
	assert.Equal(t, []string{"area/work", "component/go/test", "domain/dev"}, n.SortedTags())
	assert.Equal(t, []string{"domain/dev", "area/work", "component/go/test"}, n.RawTags())
	assert.True(t, n.HasTag("component/go"))
	assert.True(t, n.HasTag("#domain"))
	assert.False(t, n.HasTag("component/g"))
}

func TestIsFatal(t *testing.T) {
	wrapped := errors.Wrapf(core.ErrMultiplePredecessors, "note %s", "abc")
	assert.True(t, core.IsFatal(wrapped))
	assert.True(t, core.IsFatal(errors.Wrap(core.ErrInvalidDomain, "domains")))
	assert.False(t, core.IsFatal(errors.Wrap(core.ErrNotFound, "needs")))
	assert.False(t, core.IsFatal(nil))
	assert.True(t, core.IsNotFound(errors.Wrap(core.ErrNotFound, "x")))
}

func TestUnderPrefix(t *testing.T) {
	assert.True(t, core.UnderPrefix("Tasks/abc", "Tasks"))
	assert.True(t, core.UnderPrefix("Tasks/abc", "Tasks/"))
	assert.False(t, core.UnderPrefix("TasksArchive/abc", "Tasks"))
	assert.True(t, core.UnderPrefix("anything", ""))
}

func TestNewHeader_ClampsLevel(t *testing.T) {
	assert.Equal(t, 1, core.NewHeader(0, "x").Level)
	assert.Equal(t, 4, core.NewHeader(9, "x").Level)
	assert.Equal(t, 2, core.NewHeader(2, "x").Level)
}
