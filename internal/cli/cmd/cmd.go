// Package cmd contains the launcher's CLI commands.
package cmd

import (
	"fmt"

	"kgchat-launcher/pkg/python"
)

// exitCodeError carries a child process exit status up to the CLI so
// pip's pass/fail can be surfaced as the launcher's own exit status.
type exitCodeError struct {
	code int
	msg  string
}

func (e exitCodeError) Error() string { return e.msg }

// ExitCode implements kong.ExitCoder.
func (e exitCodeError) ExitCode() int { return e.code }

// resolvePython picks the interpreter from the flag, the launcher
// config, or system discovery, in that order.
func resolvePython(flagValue string, cfg *LauncherConfig) (string, error) {
	configured := flagValue
	if configured == "" && cfg != nil {
		configured = cfg.Python
	}
	return python.Resolve(configured)
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
