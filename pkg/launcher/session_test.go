package launcher

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionWriteLoad(t *testing.T) {
	dir := t.TempDir()
	s := &Session{
		ID:        uuid.NewString(),
		PID:       4242,
		StartedAt: time.Now().Unix(),
		LogPath:   "/tmp/session.log",
		Python:    "/usr/bin/python3",
	}
	require.NoError(t, s.Write(dir))

	sessions, err := LoadSessions(dir)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	got := sessions[0]
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.PID, got.PID)
	assert.Equal(t, s.StartedAt, got.StartedAt)
	assert.Equal(t, s.LogPath, got.LogPath)
	assert.Equal(t, s.Python, got.Python)
}

func TestLoadSessionsOrder(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().Unix()
	for i, id := range []string{"old", "mid", "new"} {
		s := &Session{ID: id, PID: 1000 + i, StartedAt: now + int64(i)}
		require.NoError(t, s.Write(dir))
	}

	sessions, err := LoadSessions(dir)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "new", sessions[0].ID)
	assert.Equal(t, "mid", sessions[1].ID)
	assert.Equal(t, "old", sessions[2].ID)
}

func TestLoadSessionsMissingDir(t *testing.T) {
	sessions, err := LoadSessions(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestLoadSessionsSkipsGarbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.toml"), []byte("not = [toml"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0644))

	sessions, err := LoadSessions(dir)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionRemove(t *testing.T) {
	dir := t.TempDir()
	s := &Session{ID: "gone", PID: 1}
	require.NoError(t, s.Write(dir))
	require.NoError(t, s.Remove(dir))
	require.NoError(t, s.Remove(dir))

	sessions, err := LoadSessions(dir)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestPruneSessions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a unix sleep process")
	}
	dir := t.TempDir()

	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	defer func() {
		cmd.Process.Kill()
		cmd.Wait()
	}()

	live := &Session{ID: "live", PID: cmd.Process.Pid, StartedAt: time.Now().Unix()}
	dead := &Session{ID: "dead", PID: 999999, StartedAt: time.Now().Unix() - 60}
	require.NoError(t, live.Write(dir))
	require.NoError(t, dead.Write(dir))

	alive, err := PruneSessions(dir)
	require.NoError(t, err)
	require.Len(t, alive, 1)
	assert.Equal(t, "live", alive[0].ID)

	// The dead session file is gone
	_, err = os.Stat(filepath.Join(dir, "dead.toml"))
	assert.True(t, os.IsNotExist(err))
}

func TestFindRunning(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a unix sleep process")
	}
	dir := t.TempDir()

	found, err := FindRunning(dir)
	require.NoError(t, err)
	assert.Nil(t, found)

	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	defer func() {
		cmd.Process.Kill()
		cmd.Wait()
	}()

	s := &Session{ID: "live", PID: cmd.Process.Pid, StartedAt: time.Now().Unix()}
	require.NoError(t, s.Write(dir))

	found, err = FindRunning(dir)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "live", found.ID)
}

func TestStopDeadProcess(t *testing.T) {
	s := &Session{ID: "dead", PID: 999999}
	assert.NoError(t, s.Stop(time.Second))
}

func TestStop(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a unix sleep process")
	}
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	go cmd.Wait()

	s := &Session{ID: "live", PID: cmd.Process.Pid, StartedAt: time.Now().Unix()}
	require.NoError(t, s.Stop(5*time.Second))
	assert.False(t, s.Alive())
}
