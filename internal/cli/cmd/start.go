package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"kgchat-launcher/internal/cli/output"
	env "kgchat-launcher/pkg"
	"kgchat-launcher/pkg/launcher"
	"kgchat-launcher/pkg/python"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
)

// startupGrace is how long a freshly launched application is watched
// before the launch is considered successful.
const startupGrace = 2 * time.Second

// StartCmd launches the application.
type StartCmd struct {
	Attach bool   `help:"Run in the foreground and show application output"`
	Log    bool   `help:"Capture application output into a session log file"`
	Python string `help:"Python interpreter to run with" type:"path" placeholder:"PATH"`

	Args []string `arg:"" optional:"" help:"Extra arguments passed to the application"`
}

func (c *StartCmd) Run(ctx *kong.Context, verbosity int) error {
	root, err := env.ResolveRoot()
	if err != nil {
		return err
	}
	cfg, err := LoadLauncherConfig()
	if err != nil {
		return err
	}
	py, err := resolvePython(c.Python, cfg)
	if err != nil {
		return err
	}

	if c.Attach || cfg.Attach {
		log.Infof("starting %s attached with %s", env.AppName, py)
		return launcher.Attach(launcher.Options{
			Python: py,
			Root:   root,
			Args:   c.Args,
		})
	}

	if err := env.EnsureDataDirs(); err != nil {
		return err
	}

	var logPath string
	if c.Log || cfg.SessionLogs {
		logPath = filepath.Join(env.LogsDir,
			fmt.Sprintf("session-%s.log", time.Now().Format("20060102-150405")))
		pruneSessionLogs(cfg.MaxLogFiles)
	}

	opts := launcher.Options{
		Python:  python.Windowless(py),
		Root:    root,
		LogPath: logPath,
		Args:    c.Args,
	}
	log.Infof("starting %s detached with %s", env.AppName, opts.Python)

	session, err := launcher.Start(opts, env.SessionsDir)
	if err != nil {
		return err
	}

	if err := launcher.VerifyStartup(session, startupGrace); err != nil {
		session.Remove(env.SessionsDir)
		if errors.Is(err, launcher.ErrExitedEarly) && logPath != "" {
			output.Status("Session log: %s", logPath)
		}
		return err
	}

	output.Success(output.Translate("start.detached"), env.AppName, session.PID)
	if logPath == "" {
		if verbosity > 0 {
			output.Status(output.Translate("start.silent"))
		}
	} else {
		output.Status("Session log: %s", logPath)
	}
	return nil
}
