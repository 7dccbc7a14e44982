//go:build linux

package shortcut

import (
	"os"
)

const extension = ".desktop"

func create(spec Spec, path string) error {
	// Desktop entries must be executable for most desktop environments
	// to treat them as launchers.
	return os.WriteFile(path, []byte(desktopEntry(spec)), 0755)
}
