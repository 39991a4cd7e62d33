package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

func note(tags ...string) *core.Note {
	return &core.Note{ID: "Tasks/x", UUID: "x", Tags: core.ParseTags(tags)}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		tags         []string
		ns           Namespace
		emptyDefault bool
		want         string
		wantOK       bool
	}{
		{"no tags, default", nil, Area, false, "area/none", true},
		{"no tags, empty", nil, Area, true, "", false},
		{"explicit default, default", []string{"area/none"}, Area, false, "area/none", true},
		{"explicit default, empty", []string{"area/none"}, Area, true, "", false},
		{"value", []string{"context/home"}, Context, true, "context/home", true},
		{"context default", []string{"area/work"}, Context, false, "context/any", true},
		{"other namespace only", []string{"layer/core"}, Area, true, "", false},
		{"bare prefix ignored", []string{"area/", "area/work"}, Area, true, "area/work", true},
		{"fragment kept verbatim", []string{"project/gonext/api"}, Project, true, "project/gonext/api", true},
		{"no default namespace", []string{"area/work"}, Domain, false, "", false},
		{"domain value", []string{"domain/dev"}, Domain, false, "domain/dev", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Resolve(note(tt.tags...), tt.ns, tt.emptyDefault)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	got, _, err := Resolve(note("area/work", "area/home"), Area, true)
	require.NoError(t, err)
	assert.Equal(t, "area/work", got)

	got, _, err = Resolve(note("area/home", "area/work"), Area, true)
	require.NoError(t, err)
	assert.Equal(t, "area/home", got)

	// The default tag short-circuits even when a specific tag follows.
	got, ok, err := Resolve(note("area/none", "area/work"), Area, true)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)

	got, _, err = Resolve(note("area/none", "area/work"), Area, false)
	require.NoError(t, err)
	assert.Equal(t, "area/none", got)
}

func TestResolve_IndependentOfOtherNamespaces(t *testing.T) {
	a := note("context/home", "area/work", "layer/core")
	b := note("layer/core", "area/work", "context/home")

	for _, ns := range Filtered() {
		ga, _, err := Resolve(a, ns, true)
		require.NoError(t, err)
		gb, _, err := Resolve(b, ns, true)
		require.NoError(t, err)
		assert.Equal(t, ga, gb, "namespace %s", ns)

		again, _, err := Resolve(a, ns, true)
		require.NoError(t, err)
		assert.Equal(t, ga, again, "resolve is idempotent")
	}
}

func TestResolve_UnknownNamespace(t *testing.T) {
	_, _, err := Resolve(note("area/work"), Namespace("colour"), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownNamespace)
	assert.True(t, core.IsFatal(err))
}

func TestValuesAndComponents(t *testing.T) {
	n := note("component/go/test", "domain/dev", "component/cli", "domain/ops")

	assert.Equal(t, "domain/dev", DomainOf(n))
	assert.Equal(t, []string{"component/cli", "component/go/test"}, Components(n))
	assert.Len(t, Values(n, Domain), 2)
	assert.Empty(t, DomainOf(note("area/work")))
}
