// Package installer provisions the application's Python dependencies
// with pip, capturing the package manager's output into a log file.
package installer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Options configure a dependency installation run.
type Options struct {
	Python       string // interpreter to run pip with
	Requirements string // path to the requirements manifest
	WorkDir      string // working directory for pip
	Upgrade      bool   // pass --upgrade to pip
	LogPath      string // if set, capture output into this file
}

// Result describes a finished installation run.
type Result struct {
	ExitCode int
	Duration time.Duration
	LogPath  string
}

const timestampLayout = "2006-01-02 15:04:05"

// Run executes `python -m pip install -r <manifest>`. All pip output is
// streamed line by line to onLine and, when Options.LogPath is set,
// appended to the log file between start and end timestamp lines.
//
// A non-zero pip exit status is not an error here; it is surfaced in
// Result.ExitCode so the caller can report pass/fail. The returned
// error covers only failures to start pip or to write the log.
func Run(opts Options, onLine func(string)) (Result, error) {
	args := []string{"-m", "pip", "install", "-r", opts.Requirements}
	if opts.Upgrade {
		args = append(args, "--upgrade")
	}

	var sinks []io.Writer
	var logFile *os.File
	if opts.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogPath), 0755); err != nil {
			return Result{}, fmt.Errorf("create log directory: %w", err)
		}
		var err error
		logFile, err = os.OpenFile(opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return Result{}, fmt.Errorf("open install log: %w", err)
		}
		defer logFile.Close()
		fmt.Fprintf(logFile, "=== Install started %s ===\n", time.Now().Format(timestampLayout))
		sinks = append(sinks, logFile)
	}

	lw := &lineWriter{onLine: onLine}
	defer lw.Flush()
	sinks = append(sinks, lw)
	out := io.MultiWriter(sinks...)

	cmd := exec.Command(opts.Python, args...)
	cmd.Dir = opts.WorkDir
	cmd.Stdout = out
	cmd.Stderr = out

	start := time.Now()
	err := cmd.Run()
	res := Result{Duration: time.Since(start), LogPath: opts.LogPath}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			if logFile != nil {
				fmt.Fprintf(logFile, "=== Install failed to start: %v ===\n", err)
			}
			return res, fmt.Errorf("run pip: %w", err)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	if logFile != nil {
		fmt.Fprintf(logFile, "=== Install finished %s (exit %d) ===\n",
			time.Now().Format(timestampLayout), res.ExitCode)
	}
	return res, nil
}

// DesktopLogPath returns the extended installer's log file location on
// the given desktop directory.
func DesktopLogPath(desktopDir string) string {
	return filepath.Join(desktopDir, "kgchat_install.log")
}

// lineWriter splits a byte stream into lines for a callback.
type lineWriter struct {
	onLine func(string)
	buf    []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := string(w.buf[:i])
		w.buf = w.buf[i+1:]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		if w.onLine != nil {
			w.onLine(line)
		}
	}
	return len(p), nil
}

// Flush reports any trailing unterminated line.
func (w *lineWriter) Flush() {
	if len(w.buf) > 0 && w.onLine != nil {
		w.onLine(string(w.buf))
		w.buf = nil
	}
}
