package installer

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineWriter(t *testing.T) {
	var lines []string
	lw := &lineWriter{onLine: func(line string) { lines = append(lines, line) }}

	lw.Write([]byte("Collecting PyQt6\nDownloading"))
	lw.Write([]byte(" pyqt6.whl\r\n"))
	lw.Write([]byte("Installing"))
	lw.Flush()

	assert.Equal(t, []string{
		"Collecting PyQt6",
		"Downloading pyqt6.whl",
		"Installing",
	}, lines)
}

func TestLineWriterEmpty(t *testing.T) {
	called := false
	lw := &lineWriter{onLine: func(string) { called = true }}
	lw.Flush()
	assert.False(t, called)
}

// fakePip writes a shell script that imitates `python -m pip install`.
func fakePip(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "python3")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))
	return path
}

func TestRunCapturesLog(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script interpreter")
	}
	logPath := filepath.Join(t.TempDir(), "install.log")

	var lines []string
	res, err := Run(Options{
		Python:       fakePip(t, `echo "Collecting PyQt6"; echo "Successfully installed PyQt6"`),
		Requirements: "requirements.txt",
		LogPath:      logPath,
	}, func(line string) { lines = append(lines, line) })

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, logPath, res.LogPath)
	assert.Contains(t, lines, "Collecting PyQt6")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	log := string(data)
	assert.Contains(t, log, "=== Install started ")
	assert.Contains(t, log, "Collecting PyQt6\n")
	assert.Contains(t, log, "=== Install finished ")
	assert.Contains(t, log, "(exit 0) ===")

	// Start precedes output, output precedes finish
	assert.Less(t, strings.Index(log, "Install started"), strings.Index(log, "Collecting"))
	assert.Less(t, strings.Index(log, "Collecting"), strings.Index(log, "Install finished"))
}

func TestRunPipFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script interpreter")
	}
	logPath := filepath.Join(t.TempDir(), "install.log")

	res, err := Run(Options{
		Python:       fakePip(t, `echo "ERROR: No matching distribution"; exit 1`),
		Requirements: "requirements.txt",
		LogPath:      logPath,
	}, nil)

	// pip failing is a result, not an error
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "(exit 1) ===")
}

func TestRunMissingInterpreter(t *testing.T) {
	_, err := Run(Options{
		Python:       filepath.Join(t.TempDir(), "missing"),
		Requirements: "requirements.txt",
	}, nil)
	assert.Error(t, err)
}

func TestRunAppendsToExistingLog(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script interpreter")
	}
	logPath := filepath.Join(t.TempDir(), "install.log")
	require.NoError(t, os.WriteFile(logPath, []byte("earlier run\n"), 0644))

	_, err := Run(Options{
		Python:       fakePip(t, "true"),
		Requirements: "requirements.txt",
		LogPath:      logPath,
	}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "earlier run\n"))
}

func TestDesktopLogPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/desk", "kgchat_install.log"), DesktopLogPath("/desk"))
}
