package cmd

import (
	"errors"
	"fmt"
	"os"

	"kgchat-launcher/internal/cli/output"
	env "kgchat-launcher/pkg"
	"kgchat-launcher/pkg/shortcut"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
)

// ShortcutCreateCmd creates the desktop shortcut if it is missing.
type ShortcutCreateCmd struct {
	Name string `help:"Shortcut display name" placeholder:"NAME"`
}

// ShortcutRemoveCmd deletes the desktop shortcut.
type ShortcutRemoveCmd struct {
	Name string `help:"Shortcut display name" placeholder:"NAME"`
}

// ShortcutStatusCmd reports whether the desktop shortcut exists.
type ShortcutStatusCmd struct {
	Name string `help:"Shortcut display name" placeholder:"NAME"`
}

// ShortcutCmd manages the application's desktop shortcut.
type ShortcutCmd struct {
	Create ShortcutCreateCmd `cmd:"" help:"Create the desktop shortcut"`
	Remove ShortcutRemoveCmd `cmd:"" help:"Remove the desktop shortcut"`
	Status ShortcutStatusCmd `cmd:"" help:"Show whether the desktop shortcut exists"`
}

func (c *ShortcutCreateCmd) Run(ctx *kong.Context) error {
	root, err := env.ResolveRoot()
	if err != nil {
		return err
	}
	cfg, err := LoadLauncherConfig()
	if err != nil {
		return err
	}
	if c.Name != "" {
		cfg.ShortcutName = c.Name
	}
	return createDesktopShortcut(root, cfg)
}

func (c *ShortcutRemoveCmd) Run(ctx *kong.Context) error {
	path := shortcut.Path(env.DesktopDir(), shortcutName(c.Name))
	if !shortcut.Exists(path) {
		output.Info(output.Translate("shortcut.missing"))
		return nil
	}
	if err := shortcut.Remove(path); err != nil {
		return err
	}
	output.Success(output.Translate("shortcut.removed"))
	return nil
}

func (c *ShortcutStatusCmd) Run(ctx *kong.Context) error {
	path := shortcut.Path(env.DesktopDir(), shortcutName(c.Name))
	if shortcut.Exists(path) {
		output.Success(output.Translate("shortcut.exists"), path)
	} else {
		output.Info(output.Translate("shortcut.missing"))
	}
	return nil
}

func shortcutName(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	cfg, err := LoadLauncherConfig()
	if err != nil || cfg.ShortcutName == "" {
		return env.AppName
	}
	return cfg.ShortcutName
}

// createDesktopShortcut points a desktop shortcut at this launcher
// binary, so activating it starts the application silently.
func createDesktopShortcut(root string, cfg *LauncherConfig) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate launcher executable: %w", err)
	}

	name := cfg.ShortcutName
	if name == "" {
		name = env.AppName
	}

	spec := shortcut.Spec{
		Name:       name,
		Target:     exe,
		Args:       "start",
		WorkingDir: root,
		Icon:       env.IconPath(root),
		Comment:    output.Translate("launcher.description"),
	}

	path, err := shortcut.Create(env.DesktopDir(), spec)
	if errors.Is(err, shortcut.ErrExists) {
		output.Info(output.Translate("shortcut.exists"), path)
		return nil
	}
	if err != nil {
		log.Warnf("shortcut creation failed: %v", err)
		return err
	}
	output.Success(output.Translate("shortcut.created"), path)
	return nil
}
