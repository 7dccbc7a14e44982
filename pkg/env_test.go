package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "requirements.txt"), []byte("PyQt6\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.py"), []byte("print('hi')\n"), 0644))
	return root
}

func TestIsProjectRoot(t *testing.T) {
	root := makeProject(t)
	assert.True(t, IsProjectRoot(root))

	empty := t.TempDir()
	assert.False(t, IsProjectRoot(empty))

	// Manifest alone is not enough
	partial := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(partial, "requirements.txt"), nil, 0644))
	assert.False(t, IsProjectRoot(partial))
}

func TestSetDirs(t *testing.T) {
	defer func() { RootDir = "" }()

	root := makeProject(t)
	require.NoError(t, SetDirs(root))
	assert.Equal(t, root, RootDir)

	err := SetDirs(filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, ErrNoProject)
}

func TestDetectRootWalksUp(t *testing.T) {
	root := makeProject(t)
	nested := filepath.Join(root, "src", "icons")
	require.NoError(t, os.MkdirAll(nested, 0755))

	wd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(wd)
	require.NoError(t, os.Chdir(nested))

	got, err := DetectRoot()
	require.NoError(t, err)

	// TempDir may be behind a symlink, compare resolved paths
	wantReal, _ := filepath.EvalSymlinks(root)
	gotReal, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, wantReal, gotReal)
}

func TestPaths(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, filepath.Join(root, "requirements.txt"), ManifestPath(root))
	assert.Equal(t, filepath.Join(root, "src", "main.py"), EntryPointPath(root))
}

func TestIconPath(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, "", IconPath(root))

	icons := filepath.Join(root, "src", "icons")
	require.NoError(t, os.MkdirAll(icons, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(icons, "chat.svg"), nil, 0644))
	assert.Equal(t, filepath.Join(icons, "chat.svg"), IconPath(root))

	// The .ico wins when both exist
	require.NoError(t, os.WriteFile(filepath.Join(icons, "chat.ico"), nil, 0644))
	assert.Equal(t, filepath.Join(icons, "chat.ico"), IconPath(root))
}

func TestEnsureDataDirs(t *testing.T) {
	origData, origSessions, origLogs := DataDir, SessionsDir, LogsDir
	defer func() { DataDir, SessionsDir, LogsDir = origData, origSessions, origLogs }()

	setDataDirs(filepath.Join(t.TempDir(), "launcher"))
	require.NoError(t, EnsureDataDirs())

	for _, dir := range []string{DataDir, SessionsDir, LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
