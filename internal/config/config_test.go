package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "todo_store_v1", cfg.Storage.Key)
	assert.Equal(t, ":42069", cfg.Server.Addr)
	assert.Equal(t, "Delete all tasks?", cfg.UI.ConfirmMessage)
	assert.Equal(t, "all", cfg.UI.DefaultFilter)
	assert.True(t, cfg.Stats.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todokeep.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  driver: memory
  key: vue_todo_example_v1
server:
  addr: ":8080"
ui:
  title: Tareas
  default_filter: active
stats:
  enabled: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "vue_todo_example_v1", cfg.Storage.Key)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "Tareas", cfg.UI.Title)
	assert.Equal(t, "active", cfg.UI.DefaultFilter)
	assert.False(t, cfg.Stats.Enabled)
}

func TestLoad_EnvWins(t *testing.T) {
	t.Setenv("TODOKEEP_DATA_DIR", "/tmp/todo-data")
	t.Setenv("TODOKEEP_ADDR", ":9999")
	t.Setenv("TODOKEEP_DEV_STATIC", "yes")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/todo-data", cfg.Storage.DataDir)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.True(t, cfg.Server.DevStatic)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
