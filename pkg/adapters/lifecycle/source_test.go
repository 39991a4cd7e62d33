package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

func TestSource_BridgesAndNarrows(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 2)
	in <- core.Event{Type: core.EventCreate, ID: "Tasks/a"}
	in <- core.Event{Type: core.EventModify, ID: "Tasks/b"}
	close(in)

	src := NewSource(in)
	require.NoError(t, src.Start(ctx))
	changes := Changes(ctx, src.Events())

	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-changes:
			if !ok {
				assert.Equal(t, []string{"CREATE Tasks/a", "MODIFY Tasks/b"}, got)
				return
			}
			got = append(got, e.String())
		case <-timeout:
			t.Fatalf("stream did not close, got %v", got)
		}
	}
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not stop")
	}
}
