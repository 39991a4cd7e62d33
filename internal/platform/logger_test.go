package platform

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_Fanout(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "gonext.log")

	logger, closer, err := NewLogger(&buf, slog.LevelInfo, file)
	require.NoError(t, err)
	logger.Info("report generated", "report", "doable")
	logger.Debug("cache hit", "id", "Tasks/t1")
	require.NoError(t, closer.Close())

	assert.Contains(t, buf.String(), "report generated")
	assert.NotContains(t, buf.String(), "cache hit")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"report generated"`)
	assert.Contains(t, string(data), `"msg":"cache hit"`)
}

func TestNewLogger_NoFile(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewLogger(&buf, slog.LevelWarn, "")
	require.NoError(t, err)
	logger.Info("quiet")
	logger.Warn("loud")
	assert.NoError(t, closer.Close())
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}
