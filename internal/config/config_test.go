package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	k, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "", k.String(CMD))
	assert.Equal(t, "info", k.String(LOG_LEVEL))
	assert.Equal(t, "postgres", k.String(SOURCE))
	assert.Equal(t, "/tmp/dav-export", k.String(TARGET_DIR))
	assert.Equal(t, "merged", k.String(EXPORT_MODE))
}

func TestLoad_Flags(t *testing.T) {
	k, err := Load([]string{"--cmd", "export", "--source", "json", "--json.path", "dump.json", "--export.mode=entries"})
	require.NoError(t, err)

	assert.Equal(t, "export", k.String(CMD))
	assert.Equal(t, "json", k.String(SOURCE))
	assert.Equal(t, "dump.json", k.String(JSON_PATH))
	assert.Equal(t, "entries", k.String(EXPORT_MODE))
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DAVEXPORT_TARGET_DIR", "/srv/export")
	t.Setenv("DAVEXPORT_SOURCE", "sqlite")

	k, err := Load([]string{"--source", "json"})
	require.NoError(t, err)

	assert.Equal(t, "/srv/export", k.String(TARGET_DIR))
	assert.Equal(t, "json", k.String(SOURCE), "flags win over the environment")
}

func TestSprint(t *testing.T) {
	out := Sprint()
	assert.Contains(t, out, "target_dir|optional|/tmp/dav-export")
	assert.Contains(t, out, "export_mode|optional|merged")
}
