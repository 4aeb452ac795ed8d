package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/st3v3nmw/urlblock/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRead_Defaults(t *testing.T) {
	require.NoError(t, Read("", "/var/lib/urlblock"))

	assert.Equal(t, "0.0.0.0:5000", All.API.Address())
	assert.Equal(t, []string{"*"}, All.API.CORSOrigins)
	assert.Equal(t, "/var/lib/urlblock/blocked.json", All.Store.Path)
	assert.True(t, All.History.Enabled)
	assert.Equal(t, "/var/lib/urlblock/history.db", All.History.Path)
	assert.Equal(t, 30*24*time.Hour, All.History.Retention)
	assert.Equal(t, "info", All.Log.Level)
	assert.Equal(t, types.LogFormatText, All.Log.Format)
}

func TestRead_Overrides(t *testing.T) {
	path := writeConfig(t, `
api:
  port: 8080
store:
  path: /tmp/blocked.json
history:
  retention: 48h
log:
  level: debug
  format: json
`)

	require.NoError(t, Read(path, "data"))

	assert.Equal(t, "0.0.0.0:8080", All.API.Address())
	assert.Equal(t, "/tmp/blocked.json", All.Store.Path)
	assert.True(t, All.History.Enabled)
	assert.Equal(t, filepath.Join("data", "history.db"), All.History.Path)
	assert.Equal(t, 48*time.Hour, All.History.Retention)
	assert.Equal(t, "debug", All.Log.Level)
	assert.Equal(t, types.LogFormatJSON, All.Log.Format)
}

func TestRead_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad level":  "log:\n  level: loud\n",
		"bad format": "log:\n  format: xml\n",
		"bad host":   "api:\n  host: \"bad host!\"\n",
		"zero port":  "api:\n  port: 0\n",
		"bad yaml":   "api: [\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, Read(writeConfig(t, content), "data"))
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	err := Read(filepath.Join(t.TempDir(), "missing.yaml"), "data")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRead_HostnameBind(t *testing.T) {
	path := writeConfig(t, "api:\n  host: localhost\n  port: 8080\n")

	require.NoError(t, Read(path, "data"))
	assert.Equal(t, "localhost:8080", All.API.Address())
}
