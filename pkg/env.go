// Package env resolves the directory layout the launcher works with:
// the KG Chat project root and the launcher's own data directories.
package env

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the display name of the application being launched.
const AppName = "KG Chat"

var (
	// RootDir is the KG Chat project root, containing requirements.txt
	// and the src/ package with the application entry point.
	RootDir string

	// DataDir holds the launcher's own state (config, sessions, logs).
	DataDir string

	// SessionsDir holds one file per launched application session.
	SessionsDir string

	// LogsDir holds the launcher's diagnostic and session logs.
	LogsDir string
)

// ErrNoProject indicates that no KG Chat installation could be located.
var ErrNoProject = errors.New("project root not found")

// Project layout markers. A directory is considered the project root
// when both are present.
const (
	manifestName = "requirements.txt"
	entryPoint   = "src/main.py"
)

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	setDataDirs(filepath.Join(home, ".kgchat-launcher"))
}

func setDataDirs(dataDir string) {
	DataDir = dataDir
	SessionsDir = filepath.Join(dataDir, "sessions")
	LogsDir = filepath.Join(dataDir, "logs")
}

// SetDirs overrides the project root with an explicit path.
func SetDirs(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrNoProject, root)
	}
	RootDir = abs
	return nil
}

// DetectRoot locates the project root by walking up from the working
// directory and then from the launcher executable's directory, looking
// for the dependency manifest and the application entry point.
func DetectRoot() (string, error) {
	var starts []string
	if wd, err := os.Getwd(); err == nil {
		starts = append(starts, wd)
	}
	if exe, err := os.Executable(); err == nil {
		starts = append(starts, filepath.Dir(exe))
	}

	for _, start := range starts {
		dir := start
		for {
			if IsProjectRoot(dir) {
				return dir, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return "", ErrNoProject
}

// IsProjectRoot reports whether dir looks like a KG Chat installation.
func IsProjectRoot(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, manifestName)); err != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(entryPoint)))
	return err == nil
}

// ResolveRoot returns RootDir if set via SetDirs, detecting it otherwise.
func ResolveRoot() (string, error) {
	if RootDir != "" {
		return RootDir, nil
	}
	root, err := DetectRoot()
	if err != nil {
		return "", err
	}
	RootDir = root
	return root, nil
}

// ManifestPath returns the dependency manifest path under root.
func ManifestPath(root string) string {
	return filepath.Join(root, manifestName)
}

// EntryPointPath returns the application entry point path under root.
func EntryPointPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(entryPoint))
}

// IconPath returns the best available icon asset under root. Windows
// shortcuts want an .ico; the SVG the application itself uses is the
// fallback.
func IconPath(root string) string {
	candidates := []string{
		filepath.Join(root, "src", "icons", "chat.ico"),
		filepath.Join(root, "src", "icons", "chat.svg"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// EnsureDataDirs creates the launcher data directories if missing.
func EnsureDataDirs() error {
	for _, dir := range []string{DataDir, SessionsDir, LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	return nil
}

// DesktopDir returns the user's desktop directory, where the extended
// installer writes its log and the shortcut.
func DesktopDir() string {
	if runtime.GOOS == "windows" {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, "Desktop")
		}
	}
	if xdg := os.Getenv("XDG_DESKTOP_DIR"); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Desktop")
}
