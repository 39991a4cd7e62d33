package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	// base/
	//   vault/ (.obsidian)
	//     sub/nested/
	//   configured/ (gonext.toml)
	//   empty/
	base := t.TempDir()
	vault := filepath.Join(base, "vault")
	sub := filepath.Join(vault, "sub")
	nested := filepath.Join(sub, "nested")
	configured := filepath.Join(base, "configured")
	empty := filepath.Join(base, "empty")

	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.MkdirAll(empty, 0o755))
	require.NoError(t, os.MkdirAll(configured, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(vault, ".obsidian"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configured, ConfigFile), nil, 0o644))

	tests := []struct {
		name     string
		start    string
		wantRoot string
		wantErr  bool
	}{
		{name: "start at root", start: vault, wantRoot: vault},
		{name: "start in subdir", start: sub, wantRoot: vault},
		{name: "start nested deeply", start: nested, wantRoot: vault},
		{name: "config file marks root", start: configured, wantRoot: configured},
		{name: "no root found", start: empty, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.start)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.wantRoot), filepath.Clean(got))
		})
	}
}
