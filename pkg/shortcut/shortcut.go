// Package shortcut creates and removes desktop shortcuts pointing at
// the launcher.
package shortcut

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrExists indicates the shortcut is already present; creation is
	// skipped rather than overwriting it.
	ErrExists = errors.New("desktop shortcut already exists")

	// ErrCreateFailed indicates the shortcut file did not appear after
	// the creation step ran.
	ErrCreateFailed = errors.New("failed to create desktop shortcut")
)

// A Spec describes the shortcut to create.
type Spec struct {
	Name       string // display name, without extension
	Target     string // executable the shortcut launches
	Args       string // arguments passed to the target
	WorkingDir string
	Icon       string // optional icon asset path
	Comment    string // optional description
}

// Path returns where the shortcut for name lives inside dir, with the
// platform's extension.
func Path(dir, name string) string {
	return filepath.Join(dir, name+extension)
}

// Exists reports whether a shortcut file is present at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Create places a shortcut described by spec into dir.
//
// Creation is idempotent: if the shortcut file already exists it is
// left untouched and ErrExists is returned. After the platform's
// creation step runs, the resulting file's presence is the success
// test; its absence yields ErrCreateFailed.
func Create(dir string, spec Spec) (string, error) {
	if spec.Name == "" || spec.Target == "" {
		return "", fmt.Errorf("shortcut needs a name and a target")
	}
	path := Path(dir, spec.Name)
	if Exists(path) {
		return path, ErrExists
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create shortcut directory: %w", err)
	}

	if err := create(spec, path); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}
	if !Exists(path) {
		return "", ErrCreateFailed
	}
	return path, nil
}

// Remove deletes the shortcut file if present.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove shortcut: %w", err)
	}
	return nil
}

// desktopEntry renders a freedesktop.org .desktop file for spec.
func desktopEntry(spec Spec) string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Name=%s\n", spec.Name)
	exec := spec.Target
	if spec.Args != "" {
		exec += " " + spec.Args
	}
	fmt.Fprintf(&b, "Exec=%s\n", exec)
	if spec.WorkingDir != "" {
		fmt.Fprintf(&b, "Path=%s\n", spec.WorkingDir)
	}
	if spec.Icon != "" {
		fmt.Fprintf(&b, "Icon=%s\n", spec.Icon)
	}
	if spec.Comment != "" {
		fmt.Fprintf(&b, "Comment=%s\n", spec.Comment)
	}
	b.WriteString("Terminal=false\n")
	return b.String()
}
