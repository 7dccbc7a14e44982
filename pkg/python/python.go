// Package python locates and inspects the Python interpreter used to
// install dependencies and run the application.
package python

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// ErrNoPython indicates that no usable interpreter was found.
var ErrNoPython = errors.New("python interpreter not found")

// MinVersion is the oldest interpreter the application supports.
var MinVersion = semver.MustParse("3.9.0")

// Find attempts to locate a suitable Python interpreter on the system.
//
// Resolution order: the KGCHAT_PYTHON environment variable, the PATH,
// then well-known installation directories.
func Find() string {
	if override := os.Getenv("KGCHAT_PYTHON"); override != "" {
		if fileExists(override) {
			return override
		}
	}

	names := []string{"python3", "python"}
	if runtime.GOOS == "windows" {
		names = []string{"python", "python3", "py"}
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}

	// On Windows, check per-user installs under LocalAppData
	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			basePath := filepath.Join(localAppData, "Programs", "Python")
			if entries, err := os.ReadDir(basePath); err == nil {
				var latest string
				for _, entry := range entries {
					if entry.IsDir() && strings.HasPrefix(entry.Name(), "Python") {
						candidate := filepath.Join(basePath, entry.Name(), "python.exe")
						if fileExists(candidate) && entry.Name() > latest {
							latest = entry.Name()
						}
					}
				}
				if latest != "" {
					return filepath.Join(basePath, latest, "python.exe")
				}
			}
		}
	}

	// On Linux/macOS, check common prefixes not always on PATH
	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		commonPaths := []string{
			"/usr/local/bin/python3",
			"/opt/homebrew/bin/python3",
			"/usr/bin/python3",
		}
		for _, path := range commonPaths {
			if fileExists(path) {
				return path
			}
		}
	}

	return ""
}

// Resolve returns the interpreter to use, preferring the configured
// path over discovery.
func Resolve(configured string) (string, error) {
	if configured != "" {
		if !fileExists(configured) {
			return "", fmt.Errorf("%w: %s", ErrNoPython, configured)
		}
		return configured, nil
	}
	if path := Find(); path != "" {
		return path, nil
	}
	return "", ErrNoPython
}

// Windowless returns the interpreter variant that runs without a
// console window. On Windows this is the pythonw.exe sibling of the
// given interpreter; elsewhere the interpreter itself is returned.
func Windowless(interpreter string) string {
	if runtime.GOOS != "windows" {
		return interpreter
	}
	dir, base := filepath.Split(interpreter)
	if strings.EqualFold(base, "python.exe") {
		candidate := filepath.Join(dir, "pythonw.exe")
		if fileExists(candidate) {
			return candidate
		}
	}
	return interpreter
}

var versionRe = regexp.MustCompile(`Python (\d+\.\d+(?:\.\d+)?)`)

// Version probes the interpreter for its version.
func Version(interpreter string) (*semver.Version, error) {
	cmd := exec.Command(interpreter, "--version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("probe interpreter version: %w", err)
	}
	return ParseVersion(string(out))
}

// ParseVersion extracts a semantic version from `python --version` output.
func ParseVersion(out string) (*semver.Version, error) {
	m := versionRe.FindStringSubmatch(strings.TrimSpace(out))
	if m == nil {
		return nil, fmt.Errorf("unrecognized interpreter version output: %q", strings.TrimSpace(out))
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil, fmt.Errorf("parse interpreter version: %w", err)
	}
	return v, nil
}

// Supported reports whether the interpreter version satisfies MinVersion.
func Supported(v *semver.Version) bool {
	return v != nil && !v.LessThan(MinVersion)
}

// PipAvailable reports whether the interpreter has the pip module.
func PipAvailable(interpreter string) bool {
	cmd := exec.Command(interpreter, "-m", "pip", "--version")
	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		return false
	}
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		return err == nil
	case <-time.After(15 * time.Second):
		cmd.Process.Kill()
		return false
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
