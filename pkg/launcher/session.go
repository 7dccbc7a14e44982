package launcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pelletier/go-toml/v2"
)

// ErrStopTimeout indicates the application ignored the stop request.
var ErrStopTimeout = errors.New("application did not stop in time")

// A Session records one launched application process.
type Session struct {
	ID        string `toml:"id"`
	PID       int    `toml:"pid"`
	StartedAt int64  `toml:"started_at"`
	LogPath   string `toml:"log_path,omitempty"`
	Python    string `toml:"python"`
}

// Write persists the session file into dir.
func (s *Session) Write(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create sessions directory: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return os.WriteFile(s.path(dir), data, 0644)
}

// Remove deletes the session file from dir.
func (s *Session) Remove(dir string) error {
	if err := os.Remove(s.path(dir)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Session) path(dir string) string {
	return filepath.Join(dir, s.ID+".toml")
}

// Started returns the session start time.
func (s *Session) Started() time.Time {
	return time.Unix(s.StartedAt, 0)
}

// Alive reports whether the session's process still exists.
func (s *Session) Alive() bool {
	if s.PID <= 0 {
		return false
	}
	return processAlive(s.PID)
}

// Stop asks the session's process to terminate and waits for it to go
// away, escalating to a hard kill after the timeout.
func (s *Session) Stop(timeout time.Duration) error {
	if !s.Alive() {
		return nil
	}
	if err := terminateProcess(s.PID); err != nil {
		return fmt.Errorf("signal application: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = timeout

	err := backoff.Retry(func() error {
		if s.Alive() {
			return ErrStopTimeout
		}
		return nil
	}, b)
	if err == nil {
		return nil
	}

	if killErr := killProcess(s.PID); killErr != nil {
		return fmt.Errorf("kill application: %w", killErr)
	}
	return nil
}

// LoadSessions reads all session files in dir, newest first.
func LoadSessions(dir string) ([]*Session, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sessions directory: %w", err)
	}

	var sessions []*Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		var s Session
		if err := toml.Unmarshal(data, &s); err != nil {
			continue
		}
		if s.ID == "" {
			s.ID = strings.TrimSuffix(entry.Name(), ".toml")
		}
		sessions = append(sessions, &s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt > sessions[j].StartedAt
	})
	return sessions, nil
}

// PruneSessions drops session files whose process is gone and returns
// the sessions that remain alive.
func PruneSessions(dir string) ([]*Session, error) {
	sessions, err := LoadSessions(dir)
	if err != nil {
		return nil, err
	}
	var alive []*Session
	for _, s := range sessions {
		if s.Alive() {
			alive = append(alive, s)
			continue
		}
		s.Remove(dir)
	}
	return alive, nil
}

// FindRunning returns the most recently started alive session, if any.
func FindRunning(dir string) (*Session, error) {
	alive, err := PruneSessions(dir)
	if err != nil {
		return nil, err
	}
	if len(alive) == 0 {
		return nil, nil
	}
	return alive[0], nil
}
