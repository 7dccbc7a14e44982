package cmd

import (
	"os"
	"path/filepath"
	"testing"

	env "kgchat-launcher/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempDataDir points the launcher's data directory at a temp dir so
// config files never touch the real home directory.
func useTempDataDir(t *testing.T) {
	t.Helper()
	orig := env.DataDir
	env.DataDir = t.TempDir()
	t.Cleanup(func() { env.DataDir = orig })
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, env.AppName, config.ShortcutName)
	assert.Equal(t, 20, config.MaxLogFiles)
	assert.Empty(t, config.Python)
	assert.False(t, config.Attach)
}

func TestLoadLauncherConfigMissing(t *testing.T) {
	useTempDataDir(t)

	config, err := LoadLauncherConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	useTempDataDir(t)

	config := DefaultConfig()
	config.Python = "/usr/bin/python3.11"
	config.SessionLogs = true
	config.Lang = "ru"
	config.MaxLogFiles = 5
	require.NoError(t, SaveLauncherConfig(config))

	loaded, err := LoadLauncherConfig()
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestLoadLauncherConfigMalformed(t *testing.T) {
	useTempDataDir(t)

	path := filepath.Join(env.DataDir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("python = [broken"), 0644))

	config, err := LoadLauncherConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestSetConfigValues(t *testing.T) {
	useTempDataDir(t)

	config := DefaultConfig()
	err := setConfigValues(config, map[string]string{
		"python":        "/opt/python/bin/python3",
		"session_logs":  "true",
		"max_log_files": "7",
	})
	require.NoError(t, err)

	loaded, err := LoadLauncherConfig()
	require.NoError(t, err)
	assert.Equal(t, "/opt/python/bin/python3", loaded.Python)
	assert.True(t, loaded.SessionLogs)
	assert.Equal(t, 7, loaded.MaxLogFiles)
}

func TestSetConfigValuesIgnoresBadCount(t *testing.T) {
	useTempDataDir(t)

	config := DefaultConfig()
	require.NoError(t, setConfigValues(config, map[string]string{"max_log_files": "-3"}))
	assert.Equal(t, 20, config.MaxLogFiles)
}

func TestResetConfig(t *testing.T) {
	useTempDataDir(t)

	require.NoError(t, SaveLauncherConfig(DefaultConfig()))
	require.NoError(t, resetConfig())

	_, err := os.Stat(configFilePath())
	assert.True(t, os.IsNotExist(err))

	// Resetting twice is fine
	assert.NoError(t, resetConfig())
}

func TestExportImportConfig(t *testing.T) {
	useTempDataDir(t)

	config := DefaultConfig()
	config.Lang = "ru"
	exportPath := filepath.Join(t.TempDir(), "backup.toml")
	require.NoError(t, exportConfig(config, exportPath))

	require.NoError(t, importConfig(exportPath))
	loaded, err := LoadLauncherConfig()
	require.NoError(t, err)
	assert.Equal(t, "ru", loaded.Lang)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "1", "yes", "on"} {
		assert.True(t, parseBool(s), s)
	}
	for _, s := range []string{"false", "0", "no", "off", ""} {
		assert.False(t, parseBool(s), s)
	}
}
