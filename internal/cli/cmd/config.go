package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kgchat-launcher/internal/cli/output"
	env "kgchat-launcher/pkg"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml/v2"
)

// LauncherConfig represents the launcher's persistent configuration.
type LauncherConfig struct {
	Python       string `toml:"python"          comment:"Path to the Python interpreter. If blank, the launcher searches the system."`
	Attach       bool   `toml:"attach"          comment:"Run the application in the foreground by default"`
	SessionLogs  bool   `toml:"session_logs"    comment:"Capture application output into per-session log files"`
	Lang         string `toml:"lang"            comment:"Output language (en, ru). If blank, the system locale decides."`
	ShortcutName string `toml:"shortcut_name"   comment:"Display name of the desktop shortcut"`
	MaxLogFiles  int    `toml:"max_log_files"   comment:"Session log files kept before the oldest are removed"`
}

// ConfigCmd manages the launcher configuration file.
type ConfigCmd struct {
	Args []string `arg:"" optional:"" help:"list | get <key>... | set <key>=<value>... | reset | export <file> | import <file>"`
}

func (c *ConfigCmd) Run(ctx *kong.Context) error {
	args := c.Args
	config, err := LoadLauncherConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if len(args) == 0 {
		return listConfig(config)
	}

	switch action := args[0]; action {
	case "list":
		return listConfig(config)
	case "reset":
		return resetConfig()
	case "get":
		if len(args) < 2 {
			return fmt.Errorf("specify keys to get")
		}
		return getConfigValues(config, args[1:])
	case "set":
		if len(args) < 2 {
			return fmt.Errorf("specify parameters to set (key=value)")
		}
		values := make(map[string]string)
		for _, arg := range args[1:] {
			parts := strings.SplitN(arg, "=", 2)
			if len(parts) != 2 {
				return fmt.Errorf("invalid parameter format: %s (expected key=value)", arg)
			}
			values[parts[0]] = parts[1]
		}
		return setConfigValues(config, values)
	case "export":
		if len(args) < 2 {
			return fmt.Errorf("specify the export file path")
		}
		return exportConfig(config, args[1])
	case "import":
		if len(args) < 2 {
			return fmt.Errorf("specify the import file path")
		}
		return importConfig(args[1])
	default:
		return fmt.Errorf("unknown action: %s", action)
	}
}

func configFilePath() string {
	return filepath.Join(env.DataDir, "config.toml")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *LauncherConfig {
	return &LauncherConfig{
		ShortcutName: env.AppName,
		MaxLogFiles:  20,
	}
}

// LoadLauncherConfig reads the configuration, falling back to defaults
// when the file is missing or malformed.
func LoadLauncherConfig() (*LauncherConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, config); err != nil {
		output.Warning("Could not parse the configuration file, using defaults: %v", err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// SaveLauncherConfig writes the configuration file.
func SaveLauncherConfig(config *LauncherConfig) error {
	if err := os.MkdirAll(filepath.Dir(configFilePath()), 0755); err != nil {
		return err
	}
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configFilePath(), data, 0644)
}

func setConfigValues(config *LauncherConfig, values map[string]string) error {
	updated := false

	for key, value := range values {
		switch key {
		case "python":
			config.Python = value
			updated = true
		case "attach":
			config.Attach = parseBool(value)
			updated = true
		case "session_logs":
			config.SessionLogs = parseBool(value)
			updated = true
		case "lang":
			config.Lang = value
			updated = true
		case "shortcut_name":
			config.ShortcutName = value
			updated = true
		case "max_log_files":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				config.MaxLogFiles = n
				updated = true
			}
		default:
			output.Warning("Unknown configuration parameter: %s", key)
		}
	}

	if !updated {
		output.Info("No parameters were changed")
		return nil
	}
	if err := SaveLauncherConfig(config); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	output.Success("Configuration updated")
	return nil
}

func getConfigValues(config *LauncherConfig, keys []string) error {
	for _, key := range keys {
		var value interface{}
		switch key {
		case "python":
			value = config.Python
		case "attach":
			value = config.Attach
		case "session_logs":
			value = config.SessionLogs
		case "lang":
			value = config.Lang
		case "shortcut_name":
			value = config.ShortcutName
		case "max_log_files":
			value = config.MaxLogFiles
		default:
			output.Error("Unknown configuration parameter: %s", key)
			continue
		}
		fmt.Printf("%s = %v\n", key, value)
	}
	return nil
}

func listConfig(config *LauncherConfig) error {
	output.Header("Launcher configuration")
	fmt.Println()

	fmt.Printf("python:         %s\n", config.Python)
	fmt.Printf("attach:         %t\n", config.Attach)
	fmt.Printf("session_logs:   %t\n", config.SessionLogs)
	fmt.Printf("lang:           %s\n", config.Lang)
	fmt.Printf("shortcut_name:  %s\n", config.ShortcutName)
	fmt.Printf("max_log_files:  %d\n", config.MaxLogFiles)

	fmt.Println()
	output.Status("Configuration file: %s", configFilePath())
	return nil
}

func resetConfig() error {
	if err := os.Remove(configFilePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove configuration file: %w", err)
	}
	output.Success("Configuration reset to defaults")
	return nil
}

func exportConfig(config *LauncherConfig, filePath string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	output.Success("Configuration exported to: %s", filePath)
	return nil
}

func importConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	var config LauncherConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parse import file: %w", err)
	}
	if err := SaveLauncherConfig(&config); err != nil {
		return fmt.Errorf("save imported configuration: %w", err)
	}
	output.Success("Configuration imported from: %s", filePath)
	return nil
}

func parseBool(s string) bool {
	switch s {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
