package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Load(t *testing.T) {
	t.Run("starts empty if file missing", func(t *testing.T) {
		c := newCache(t.TempDir(), ".cache")
		require.NoError(t, c.Load())
		assert.Zero(t, c.Len())
	})

	t.Run("loads valid json", func(t *testing.T) {
		tmp := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(tmp, ".cache"), 0o755))
		content := `{"version": 2, "entries": {"Tasks/a.md": {"id": "Tasks/a", "metadata": {"type": "task"}}}}`
		require.NoError(t, os.WriteFile(filepath.Join(tmp, ".cache", "index.json"), []byte(content), 0o644))

		c := newCache(tmp, ".cache")
		require.NoError(t, c.Load())
		entry, ok := c.Get("Tasks/a.md", time.Time{})
		require.True(t, ok)
		assert.Equal(t, "task", entry.Metadata["type"])
	})

	t.Run("resets on corruption or old version", func(t *testing.T) {
		for _, content := range []string{"{ invalid json", `{"version": 1, "entries": {"a.md": {}}}`} {
			tmp := t.TempDir()
			require.NoError(t, os.MkdirAll(filepath.Join(tmp, ".cache"), 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(tmp, ".cache", "index.json"), []byte(content), 0o644))

			c := newCache(tmp, ".cache")
			require.NoError(t, c.Load())
			assert.Zero(t, c.Len())
		}
	})
}

func TestCache_SaveOnlyWhenDirty(t *testing.T) {
	tmp := t.TempDir()
	c := newCache(tmp, ".cache")

	require.NoError(t, c.Save())
	assert.NoFileExists(t, c.Path)

	now := time.Now().Truncate(time.Second)
	c.Set("a.md", &indexEntry{ID: "a", LastModified: now})
	require.NoError(t, c.Save())
	assert.FileExists(t, c.Path)

	reloaded := newCache(tmp, ".cache")
	require.NoError(t, reloaded.Load())
	_, ok := reloaded.Get("a.md", now)
	assert.True(t, ok)
	_, ok = reloaded.Get("a.md", now.Add(time.Second))
	assert.False(t, ok, "stale mtime misses")
}

func TestCache_Prune(t *testing.T) {
	c := newCache(t.TempDir(), ".cache")
	c.Set("a.md", &indexEntry{ID: "a"})
	c.Set("b.md", &indexEntry{ID: "b"})

	c.Prune(map[string]bool{"a.md": true})
	assert.Equal(t, 1, c.Len())

	c.Delete("a.md")
	assert.Zero(t, c.Len())
}
