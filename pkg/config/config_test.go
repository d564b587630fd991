package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCalendar, cfg.Calendar)
	assert.Equal(t, filepath.Join(dir, "taskplan.db"), cfg.Database)
	assert.Equal(t, DefaultListen, cfg.Listen)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.NoError(t, Save(&Config{Calendar: "Work", Database: "/tmp/x.db", LogLevel: "debug"}))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Work", cfg.Calendar)
	assert.Equal(t, "/tmp/x.db", cfg.Database)
	assert.Equal(t, "debug", cfg.LogLevel)

	path, err := GetConfigPath()
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calendar: Home\n"), 0600))
	t.Setenv("TASKPLAN_CALENDAR", "Team")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "Team", cfg.Calendar)
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calendar: [unclosed\n"), 0600))
	_, err := LoadFrom(path)
	assert.Error(t, err)
}
