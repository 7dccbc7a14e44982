//go:build windows

package shortcut

import (
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

const extension = ".lnk"

// create writes a .lnk through the WScript.Shell COM object, driven by
// PowerShell. This is the same scripting-host automation the classic
// installer batch files use.
func create(spec Spec, path string) error {
	var b strings.Builder
	b.WriteString("$ws = New-Object -ComObject WScript.Shell; ")
	fmt.Fprintf(&b, "$s = $ws.CreateShortcut(%s); ", psQuote(path))
	fmt.Fprintf(&b, "$s.TargetPath = %s; ", psQuote(spec.Target))
	if spec.Args != "" {
		fmt.Fprintf(&b, "$s.Arguments = %s; ", psQuote(spec.Args))
	}
	if spec.WorkingDir != "" {
		fmt.Fprintf(&b, "$s.WorkingDirectory = %s; ", psQuote(spec.WorkingDir))
	}
	if spec.Icon != "" {
		fmt.Fprintf(&b, "$s.IconLocation = %s; ", psQuote(spec.Icon))
	}
	if spec.Comment != "" {
		fmt.Fprintf(&b, "$s.Description = %s; ", psQuote(spec.Comment))
	}
	b.WriteString("$s.Save()")

	shell := findPowerShell()
	if shell == "" {
		return fmt.Errorf("powershell not found")
	}
	cmd := exec.Command(shell, "-NoProfile", "-NonInteractive", "-Command", b.String())
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func findPowerShell() string {
	if path, err := exec.LookPath("pwsh"); err == nil {
		return path
	}
	if path, err := exec.LookPath("powershell"); err == nil {
		return path
	}
	return ""
}

// psQuote wraps s in PowerShell single quotes, doubling embedded ones.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
