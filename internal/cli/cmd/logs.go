package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"kgchat-launcher/internal/cli/output"
	env "kgchat-launcher/pkg"
	"kgchat-launcher/pkg/installer"

	"github.com/alecthomas/kong"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"
)

// LogsListCmd lists known log files.
type LogsListCmd struct{}

// LogsShowCmd prints the tail of a log file.
type LogsShowCmd struct {
	Name  string `arg:"" optional:"" help:"Log file name from 'logs list'; defaults to the newest"`
	Lines int    `help:"Lines from the end to show" default:"50"`
}

// LogsOpenCmd opens a log file with the system default application.
type LogsOpenCmd struct {
	Name string `arg:"" optional:"" help:"Log file name from 'logs list'; defaults to the newest"`
}

// LogsCmd inspects install and session logs.
type LogsCmd struct {
	List LogsListCmd `cmd:"" default:"1" help:"List known log files"`
	Show LogsShowCmd `cmd:"" help:"Print the tail of a log file"`
	Open LogsOpenCmd `cmd:"" help:"Open a log file with the system viewer"`
}

type logEntry struct {
	name string
	path string
	size int64
	mod  string
}

func collectLogs() []logEntry {
	var logs []logEntry

	add := func(path string) {
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		logs = append(logs, logEntry{
			name: filepath.Base(path),
			path: path,
			size: info.Size(),
			mod:  info.ModTime().Format("2006-01-02 15:04:05"),
		})
	}

	add(installer.DesktopLogPath(env.DesktopDir()))
	if entries, err := os.ReadDir(env.LogsDir); err == nil {
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".log") {
				add(filepath.Join(env.LogsDir, entry.Name()))
			}
		}
	}

	// Newest first
	sort.Slice(logs, func(i, j int) bool { return logs[i].mod > logs[j].mod })
	return logs
}

func findLog(name string) (string, error) {
	logs := collectLogs()
	if len(logs) == 0 {
		return "", fmt.Errorf("no log files found")
	}
	if name == "" {
		return logs[0].path, nil
	}
	for _, l := range logs {
		if l.name == name {
			return l.path, nil
		}
	}
	return "", fmt.Errorf("log file not found: %s (see 'logs list')", name)
}

func (c *LogsListCmd) Run(ctx *kong.Context) error {
	logs := collectLogs()
	if len(logs) == 0 {
		output.Info("No log files found")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Name", "Size", "Modified", "Path"})
	for _, l := range logs {
		t.AppendRow(table.Row{l.name, formatFileSize(l.size), l.mod, l.path})
	}
	t.Render()
	return nil
}

func (c *LogsShowCmd) Run(ctx *kong.Context) error {
	path, err := findLog(c.Name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if c.Lines > 0 && len(lines) > c.Lines {
		lines = lines[len(lines)-c.Lines:]
	}

	output.Header("%s", path)
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

func (c *LogsOpenCmd) Run(ctx *kong.Context) error {
	path, err := findLog(c.Name)
	if err != nil {
		return err
	}
	log.Debugf("opening %s with the system viewer", path)
	return browser.OpenFile(path)
}

// pruneSessionLogs keeps at most max session logs, dropping the oldest.
func pruneSessionLogs(max int) {
	if max <= 0 {
		return
	}
	entries, err := os.ReadDir(env.LogsDir)
	if err != nil {
		return
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "session-") {
			names = append(names, entry.Name())
		}
	}
	// Session log names embed their timestamp, so the name order is the
	// age order.
	sort.Strings(names)
	for len(names) >= max {
		os.Remove(filepath.Join(env.LogsDir, names[0]))
		names = names[1:]
	}
}
