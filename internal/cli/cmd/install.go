package cmd

import (
	"fmt"
	"strings"

	"kgchat-launcher/internal/cli/output"
	env "kgchat-launcher/pkg"
	"kgchat-launcher/pkg/installer"
	"kgchat-launcher/pkg/manifest"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
)

// InstallCmd provisions the application's dependencies with pip.
type InstallCmd struct {
	Requirements string `help:"Path to the requirements manifest" type:"path" placeholder:"PATH"`
	Python       string `help:"Python interpreter to install with" type:"path" placeholder:"PATH"`
	Upgrade      bool   `help:"Upgrade already installed packages"`
	Log          bool   `help:"Capture install output into a log file on the desktop"`
	Shortcut     bool   `help:"Also create a desktop shortcut for the application"`
}

func (c *InstallCmd) Run(ctx *kong.Context, verbosity int) error {
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

	reqPath := c.Requirements
	if reqPath == "" {
		reqPath = env.ManifestPath(root)
	}
	man, err := manifest.Parse(reqPath)
	if err != nil {
		return err
	}

	log.Infof("installing %d requirements from %s with %s", man.Count(), reqPath, py)
	output.Info(output.Translate("install.running"), reqPath)

	var logPath string
	if c.Log || c.Shortcut {
		// Extended installer behavior: timestamped log on the desktop.
		logPath = installer.DesktopLogPath(env.DesktopDir())
	}

	bar := output.CreateProgressBar(int64(man.Count()), "pip install")
	onLine := func(line string) {
		if verbosity > 0 {
			fmt.Println(line)
			return
		}
		// pip prints one "Collecting"/"Requirement already satisfied"
		// line per requirement it visits.
		if strings.HasPrefix(line, "Collecting ") ||
			strings.HasPrefix(line, "Requirement already satisfied") {
			bar.Add(1)
		}
	}

	res, err := installer.Run(installer.Options{
		Python:       py,
		Requirements: reqPath,
		WorkDir:      root,
		Upgrade:      c.Upgrade,
		LogPath:      logPath,
	}, onLine)
	bar.Finish()
	if err != nil {
		return err
	}

	if logPath != "" {
		output.Status(output.Translate("install.logged"), res.LogPath)
	}

	if res.ExitCode != 0 {
		log.Warnf("pip exited with code %d after %s", res.ExitCode, res.Duration)
		return exitCodeError{
			code: res.ExitCode,
			msg:  fmt.Sprintf(output.Translate("install.failure"), res.ExitCode),
		}
	}

	output.Success(output.Translate("install.success"))
	log.Infof("install finished in %s", res.Duration)

	if c.Shortcut {
		return createDesktopShortcut(root, cfg)
	}
	return nil
}
