package cmd

import (
	"fmt"
	"path/filepath"

	"kgchat-launcher/internal/cli/output"
	"kgchat-launcher/internal/version"
	env "kgchat-launcher/pkg"
	"kgchat-launcher/pkg/updater"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/pkg/browser"
)

// UpdateCheckCmd checks for available launcher updates.
type UpdateCheckCmd struct {
	Open bool `help:"Open the release page in the browser when an update exists"`
}

// UpdateDownloadCmd downloads and installs an available update.
type UpdateDownloadCmd struct {
	Force bool `help:"Skip confirmation prompt" short:"f"`
}

// UpdateInfoCmd shows current version information.
type UpdateInfoCmd struct{}

// UpdateCmd manages launcher updates.
type UpdateCmd struct {
	Check    UpdateCheckCmd    `cmd:"" help:"Check for a newer launcher release"`
	Download UpdateDownloadCmd `cmd:"" help:"Download and install the newest release"`
	Info     UpdateInfoCmd     `cmd:"" help:"Show version and platform information"`
}

func (c *UpdateCheckCmd) Run(ctx *kong.Context) error {
	u := createUpdater()

	output.Info("Checking for updates...")

	updateInfo, err := u.CheckForUpdates()
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}

	if !updateInfo.Available {
		output.Success("You are running the latest version!")
		return nil
	}

	fmt.Printf("\n%s %s is available!\n", color.New(color.FgGreen, color.Bold).Sprint("Update available:"), updateInfo.LatestVer)
	fmt.Printf("%s %s\n", color.New(color.FgCyan).Sprint("Current version:"), u.CurrentVer)
	fmt.Printf("%s %s\n", color.New(color.FgCyan).Sprint("Download size:"), formatFileSize(updateInfo.Size))
	fmt.Printf("%s %s\n", color.New(color.FgCyan).Sprint("Release URL:"), updateInfo.ReleaseURL)

	if updateInfo.Changelog != "" {
		fmt.Printf("\n%s\n", color.New(color.FgYellow, color.Bold).Sprint("Changelog:"))
		fmt.Println(updateInfo.Changelog)
	}

	if c.Open {
		return browser.OpenURL(updateInfo.ReleaseURL)
	}

	fmt.Printf("\n%s Run '%s' to install the update.\n",
		color.New(color.FgGreen).Sprint("→"),
		color.New(color.Bold).Sprint("kgl update download"))
	return nil
}

func (c *UpdateDownloadCmd) Run(ctx *kong.Context) error {
	u := createUpdater()

	output.Info("Checking for updates...")

	updateInfo, err := u.CheckForUpdates()
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}

	if !updateInfo.Available {
		output.Success("You are already running the latest version!")
		return nil
	}

	fmt.Printf("Update available: %s → %s\n",
		color.New(color.Bold).Sprint(u.CurrentVer),
		color.New(color.FgGreen, color.Bold).Sprint(updateInfo.LatestVer))

	if !c.Force {
		fmt.Printf("Download size: %s\n", formatFileSize(updateInfo.Size))

		var confirm string
		fmt.Print("Do you want to download and install this update? [y/N]: ")
		fmt.Scanln(&confirm)

		if confirm != "y" && confirm != "Y" {
			output.Info("Update cancelled.")
			return nil
		}
	}

	fmt.Println()
	bar := output.CreateProgressBar(100, "Downloading")
	var last int64
	err = u.DownloadUpdate(updateInfo, func(progress float64) {
		if int64(progress) > last {
			bar.Set64(int64(progress))
			last = int64(progress)
		}
	})
	bar.Finish()

	if err != nil {
		return fmt.Errorf("download update: %w", err)
	}

	output.Success("Update downloaded and installed successfully!")
	output.Status("Restart the launcher to run the new version")
	return nil
}

func (c *UpdateInfoCmd) Run(ctx *kong.Context) error {
	info := createUpdater().GetVersionInfo()

	fmt.Printf("Current version: %s\n", info["current"])
	fmt.Printf("Platform:        %s\n", info["platform"])
	return nil
}

func createUpdater() *updater.Updater {
	cacheDir := filepath.Join(env.DataDir, "cache")
	return updater.New("kgchat", "kgchat-launcher", version.Current, cacheDir)
}
