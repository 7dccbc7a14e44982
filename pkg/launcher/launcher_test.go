//go:build !windows

package launcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePython writes a shell script that sleeps, standing in for the
// interpreter so launches can be observed without Python installed.
func fakePython(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "python3")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))
	return path
}

func TestStartDetached(t *testing.T) {
	sessions := t.TempDir()
	root := t.TempDir()
	python := fakePython(t, "sleep 30")

	session, err := Start(Options{Python: python, Root: root}, sessions)
	require.NoError(t, err)
	defer session.Stop(5 * time.Second)

	assert.NotEmpty(t, session.ID)
	assert.Greater(t, session.PID, 0)
	assert.True(t, session.Alive())

	// The session file is on disk
	loaded, err := LoadSessions(sessions)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, session.ID, loaded[0].ID)
}

func TestStartWritesSessionLog(t *testing.T) {
	sessions := t.TempDir()
	logPath := filepath.Join(t.TempDir(), "logs", "session.log")

	_, err := Start(Options{
		Python:  fakePython(t, `echo "application output"`),
		Root:    t.TempDir(),
		LogPath: logPath,
	}, sessions)
	require.NoError(t, err)

	// Give the child a moment to run and flush
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(logPath); err == nil && len(data) > 0 {
			assert.Contains(t, string(data), "application output")
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("session log was never written")
}

func TestStartBadInterpreter(t *testing.T) {
	_, err := Start(Options{
		Python: filepath.Join(t.TempDir(), "missing"),
		Root:   t.TempDir(),
	}, t.TempDir())
	assert.Error(t, err)
}

func TestVerifyStartup(t *testing.T) {
	sessions := t.TempDir()

	healthy, err := Start(Options{Python: fakePython(t, "sleep 30"), Root: t.TempDir()}, sessions)
	require.NoError(t, err)
	defer healthy.Stop(5 * time.Second)
	assert.NoError(t, VerifyStartup(healthy, 500*time.Millisecond))

	crashing, err := Start(Options{Python: fakePython(t, "exit 1"), Root: t.TempDir()}, sessions)
	require.NoError(t, err)
	assert.ErrorIs(t, VerifyStartup(crashing, 2*time.Second), ErrExitedEarly)
}
