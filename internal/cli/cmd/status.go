package cmd

import (
	"fmt"
	"os"
	"time"

	"kgchat-launcher/internal/cli/output"
	env "kgchat-launcher/pkg"
	"kgchat-launcher/pkg/launcher"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// StatusCmd lists known application sessions.
type StatusCmd struct {
	All bool `help:"Include sessions whose process has exited"`
}

func (c *StatusCmd) Run(ctx *kong.Context) error {
	var sessions []*launcher.Session
	var err error
	if c.All {
		sessions, err = launcher.LoadSessions(env.SessionsDir)
	} else {
		sessions, err = launcher.PruneSessions(env.SessionsDir)
	}
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		output.Info("%s is not running", env.AppName)
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"PID", "State", "Started", "Uptime", "Log"})

	for _, s := range sessions {
		state := color.New(color.FgRed).Sprint("exited")
		uptime := "-"
		if s.Alive() {
			state = color.New(color.FgGreen).Sprint("running")
			uptime = time.Since(s.Started()).Round(time.Second).String()
		}
		logPath := s.LogPath
		if logPath == "" {
			logPath = "-"
		}
		t.AppendRow(table.Row{
			s.PID,
			state,
			s.Started().Format("2006-01-02 15:04:05"),
			uptime,
			logPath,
		})
	}
	t.Render()

	fmt.Println()
	output.Status("Sessions directory: %s", env.SessionsDir)
	return nil
}
