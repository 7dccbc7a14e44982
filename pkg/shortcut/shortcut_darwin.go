//go:build darwin

package shortcut

import (
	"os"
)

const extension = ""

// macOS has no .lnk/.desktop equivalent that can be written without
// Finder involvement; a symlink on the desktop serves the same purpose.
func create(spec Spec, path string) error {
	return os.Symlink(spec.Target, path)
}
