package fs

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

func TestDecode(t *testing.T) {
	var logs strings.Builder
	d := decoder{loc: time.UTC, logger: slog.New(slog.NewTextHandler(&logs, nil))}

	doc, err := NewMarkdownSerializer().Parse(strings.NewReader(`---
type: log
status: Done
title: Standup
created_at: 2026-02-03
done_at: 2026-02-03T10:15:00Z
after: not a date
priority: high
tags: ["#area/work", 7, "domain/dev"]
parent_id: "[[p1|Parent]]"
---
body`))
	require.NoError(t, err)
	assert.Equal(t, "body", doc.Body)

	n, err := d.decode("Logs/l1", doc.Metadata)
	require.NoError(t, err)

	assert.Equal(t, "l1", n.UUID, "uuid falls back to the file name")
	assert.Equal(t, core.TypeLog, n.Type)
	assert.Equal(t, core.StatusDone, n.Status)
	assert.Equal(t, []string{"area/work", "domain/dev"}, n.RawTags())
	assert.Equal(t, "p1", n.ParentID)
	require.NotNil(t, n.CreatedAt)
	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), *n.CreatedAt)
	require.NotNil(t, n.DoneAt)
	assert.Equal(t, 10, n.DoneAt.Hour())
	assert.Nil(t, n.After)
	assert.Zero(t, n.Priority)

	out := logs.String()
	assert.Contains(t, out, "ignoring non-string value")
	assert.Contains(t, out, "ignoring malformed date")
	assert.Contains(t, out, "ignoring malformed number")
}

func TestDecode_RequiresKnownType(t *testing.T) {
	d := decoder{loc: time.UTC, logger: slog.New(slog.DiscardHandler)}

	_, err := d.decode("x", map[string]any{})
	assert.Error(t, err)

	_, err = d.decode("x", map[string]any{"type": "spaceship"})
	assert.Error(t, err)
}

func TestDecode_SingleStringLists(t *testing.T) {
	d := decoder{loc: time.UTC, logger: slog.New(slog.DiscardHandler)}

	n, err := d.decode("Tasks/a", map[string]any{"type": "task", "tags": "area/home", "needs": "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"area/home"}, n.RawTags())
	assert.Equal(t, []string{"b"}, n.Needs)
}

func TestParse_UnclosedFrontmatter(t *testing.T) {
	_, err := NewMarkdownSerializer().Parse(strings.NewReader("---\ntype: task\n"))
	assert.Error(t, err)
}

func TestUnlink(t *testing.T) {
	assert.Equal(t, "abc", unlink("[[abc]]"))
	assert.Equal(t, "abc", unlink(" abc "))
	assert.Equal(t, "abc", unlink("[[abc|Alias]]"))
}
