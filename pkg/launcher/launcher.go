// Package launcher starts the KG Chat application process and keeps
// track of launched sessions.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// entryModule is the application entry point, run as `python -m src.main`.
const entryModule = "src.main"

// ErrExitedEarly indicates the application died right after launch.
var ErrExitedEarly = errors.New("application exited during startup")

// Options configure an application launch.
type Options struct {
	Python  string   // interpreter (already windowless-resolved for detached runs)
	Root    string   // project root, used as working directory
	LogPath string   // session output destination; empty means the null sink
	Args    []string // extra arguments passed to the application
}

// Start launches the application as a detached background process and
// returns as soon as the child is running. The child's stdout and
// stderr go to the session log if configured, or to the null sink.
func Start(opts Options, sessionsDir string) (*Session, error) {
	args := append([]string{"-m", entryModule}, opts.Args...)
	cmd := exec.Command(opts.Python, args...)
	cmd.Dir = opts.Root
	cmd.SysProcAttr = detachedSysProcAttr()

	sink, err := openSink(opts.LogPath)
	if err != nil {
		return nil, err
	}
	cmd.Stdout = sink
	cmd.Stderr = sink

	if err := cmd.Start(); err != nil {
		sink.Close()
		return nil, fmt.Errorf("start application: %w", err)
	}
	// The sink descriptor is inherited by the child; the parent's copy
	// is no longer needed.
	sink.Close()

	session := &Session{
		ID:        uuid.New().String(),
		PID:       cmd.Process.Pid,
		StartedAt: time.Now().Unix(),
		LogPath:   opts.LogPath,
		Python:    opts.Python,
	}
	if err := session.Write(sessionsDir); err != nil {
		return nil, err
	}

	if err := cmd.Process.Release(); err != nil {
		return nil, fmt.Errorf("detach application process: %w", err)
	}
	return session, nil
}

// Attach launches the application in the foreground, streaming its
// output to the launcher's stdout/stderr, and blocks until it exits.
func Attach(opts Options) error {
	args := append([]string{"-m", entryModule}, opts.Args...)
	cmd := exec.Command(opts.Python, args...)
	cmd.Dir = opts.Root
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// VerifyStartup probes the session over a short grace period and
// reports ErrExitedEarly if the process is gone before it ends. A
// crash-on-import otherwise looks like a successful silent launch.
func VerifyStartup(session *Session, grace time.Duration) error {
	deadline := time.Now().Add(grace)
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = grace

	for {
		if !session.Alive() {
			return ErrExitedEarly
		}
		wait := b.NextBackOff()
		if wait == backoff.Stop || time.Now().Add(wait).After(deadline) {
			return nil
		}
		time.Sleep(wait)
	}
}

func openSink(logPath string) (*os.File, error) {
	if logPath == "" {
		return os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("create session log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}
	return f, nil
}
