// Package cli wires the launcher's commands into a kong parser and
// provides the interactive shell.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"kgchat-launcher/internal/cli/cmd"
	"kgchat-launcher/internal/cli/output"
	"kgchat-launcher/internal/logging"
	"kgchat-launcher/internal/version"
	env "kgchat-launcher/pkg"
	"kgchat-launcher/pkg/launcher"
	"kgchat-launcher/pkg/python"

	locale "github.com/Xuanwo/go-locale"
	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"go.abhg.dev/komplete"
	"golang.org/x/text/language"
)

const name = "kgchat-launcher"

// CurrentVerbosity is the parsed --verbosity level, readable by the
// interactive shell between command dispatches.
var CurrentVerbosity int

type aboutCmd struct{}

func (aboutCmd) Run(ctx *kong.Context) error {
	color.New(color.Bold).Println(name, version.Current)
	color.New(color.Underline).Println(output.Translate("launcher.description"))
	fmt.Println(output.Translate("launcher.copyright"))
	fmt.Println(output.Translate("launcher.license"))
	return nil
}

// CLI is the top-level command grammar.
type CLI struct {
	Install     cmd.InstallCmd   `cmd:"" help:"${cmd_install}"`
	Start       cmd.StartCmd     `cmd:"" help:"${cmd_start}"`
	Stop        cmd.StopCmd      `cmd:"" help:"${cmd_stop}"`
	Status      cmd.StatusCmd    `cmd:"" help:"${cmd_status}"`
	Shortcut    cmd.ShortcutCmd  `cmd:"" help:"${cmd_shortcut}"`
	Doctor      cmd.DoctorCmd    `cmd:"" help:"${cmd_doctor}"`
	Logs        cmd.LogsCmd      `cmd:"" help:"${cmd_logs}"`
	Config      cmd.ConfigCmd    `cmd:"" help:"${cmd_config}"`
	Update      cmd.UpdateCmd    `cmd:"" help:"${cmd_update}"`
	Completions komplete.Command `cmd:"" help:"${cmd_completions}"`
	About       aboutCmd         `cmd:"" help:"${cmd_about}"`

	Verbosity   string `help:"${arg_verbosity}" enum:"info,extra,debug" default:"info"`
	Dir         string `help:"${arg_dir}" type:"path" placeholder:"PATH"`
	NoColor     bool   `help:"${arg_nocolor}"`
	Interactive bool   `help:"${arg_interactive}"`
	Lang        string `help:"${arg_lang}" default:""`
}

func (c *CLI) AfterApply(ctx *kong.Context) error {
	var verbosity int
	switch c.Verbosity {
	case "info":
		verbosity = 0
	case "extra":
		verbosity = 1
	case "debug":
		verbosity = 2
	}
	CurrentVerbosity = verbosity
	ctx.Bind(verbosity)

	if c.Dir != "" {
		if err := env.SetDirs(c.Dir); err != nil {
			return err
		}
	}
	if c.NoColor {
		color.NoColor = true
	}
	if c.Lang != "" && c.Lang != "en" && c.Lang != "ru" {
		return fmt.Errorf("invalid language '%s': must be 'en' or 'ru'", c.Lang)
	}

	// Debug verbosity keeps diagnostics on stderr; otherwise they go to
	// the rotating launcher log.
	logPath := filepath.Join(env.LogsDir, "launcher.log")
	if verbosity >= 2 {
		logPath = ""
	}
	logging.Init(logging.LevelFor(verbosity), logPath)
	return nil
}

func vars() kong.Vars {
	vars := make(kong.Vars)
	for k, v := range output.Translations() {
		vars[strings.ReplaceAll(k, ".", "_")] = v
	}
	return vars
}

func valueFormatter(value *kong.Value) string {
	if value.Enum != "" {
		return fmt.Sprintf("%s [%s]", value.Help, strings.Join(value.EnumSlice(), ", "))
	}
	return value.Help
}

// tips prints a hint based on an error, if one applies.
func tips(err error) {
	if errors.Is(err, env.ErrNoProject) {
		output.Tip(output.Translate("tip.noproject"))
	}
	if errors.Is(err, python.ErrNoPython) {
		output.Tip(output.Translate("tip.nopython"))
	}
	if errors.Is(err, launcher.ErrExitedEarly) {
		output.Tip(output.Translate("tip.early"))
	}
	// Only dependency installation surfaces pip's exit status this way.
	var coder kong.ExitCoder
	if errors.As(err, &coder) {
		output.Tip(output.Translate("tip.pip"))
	}
}

// setupLang picks the output language from --lang, the launcher
// config, or the system locale, in that order.
func setupLang() {
	if flag := parseLangFlag(); flag != "" {
		switch flag {
		case "ru":
			output.SetLang(language.Russian)
		default:
			output.SetLang(language.English)
		}
		return
	}

	if cfg, err := cmd.LoadLauncherConfig(); err == nil && cfg.Lang != "" {
		switch cfg.Lang {
		case "ru":
			output.SetLang(language.Russian)
		default:
			output.SetLang(language.English)
		}
		return
	}

	if tag, err := locale.Detect(); err == nil {
		output.SetLang(tag)
	}
}

// parseLangFlag checks command line arguments for --lang before kong
// parsing happens, since translations feed the help text itself.
func parseLangFlag() string {
	for i, arg := range os.Args[1:] {
		if arg == "--lang" && i+1 < len(os.Args[1:]) {
			return os.Args[i+2]
		}
		if strings.HasPrefix(arg, "--lang=") {
			return strings.TrimPrefix(arg, "--lang=")
		}
	}
	return ""
}

func newParser() *kong.Kong {
	return kong.Must(&CLI{},
		kong.Name(name),
		kong.Description(output.Translate("launcher.description")),
		kong.ConfigureHelp(kong.HelpOptions{
			NoExpandSubcommands: true,
			Compact:             true,
		}),
		kong.ValueFormatter(valueFormatter),
		vars(),
	)
}

// Run creates the CLI parser and runs it. It returns an exit handler
// and code.
func Run() (func(int), int) {
	setupLang()

	if shouldUseInteractiveMode() {
		return runInteractiveMode()
	}

	parser := newParser()
	komplete.Run(parser)

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		exitCode := 1
		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Context.PrintUsage(false)
			exitCode = parseErr.ExitCode()
		}
		output.Error("%s", err)
		return parser.Exit, exitCode
	}

	if err := ctx.Run(); err != nil {
		output.Error("%s", err)
		tips(err)
		var coder kong.ExitCoder
		if errors.As(err, &coder) {
			return ctx.Exit, coder.ExitCode()
		}
		return ctx.Exit, 1
	}
	return ctx.Exit, 0
}

// shouldUseInteractiveMode reports whether to enter the interactive
// shell: explicit flag, no arguments at all, or the environment asks.
func shouldUseInteractiveMode() bool {
	for _, arg := range os.Args[1:] {
		if arg == "--interactive" {
			return true
		}
	}
	if len(os.Args) == 1 {
		return true
	}
	return os.Getenv("KGCHAT_LAUNCHER_INTERACTIVE") == "1"
}

func historyFilePath() string {
	return filepath.Join(env.DataDir, ".launcher_history")
}

func loadHistory() ([]string, error) {
	file, err := os.Open(historyFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var history []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			history = append(history, line)
		}
	}
	return history, scanner.Err()
}

func saveHistory(history []string) error {
	if err := os.MkdirAll(filepath.Dir(historyFilePath()), 0755); err != nil {
		return err
	}
	file, err := os.Create(historyFilePath())
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, line := range history {
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// parseQuotedArgs splits a command line, respecting quotes.
func parseQuotedArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoteChar := byte(0)

	for i := 0; i < len(input); i++ {
		char := input[i]
		switch {
		case !inQuotes && unicode.IsSpace(rune(char)):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		case !inQuotes && (char == '"' || char == '\''):
			inQuotes = true
			quoteChar = char
		case inQuotes && char == quoteChar:
			inQuotes = false
			quoteChar = 0
		default:
			current.WriteByte(char)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

func printInteractiveStatus() {
	running := color.New(color.FgRed).Sprint("✗")
	if s, err := launcher.FindRunning(env.SessionsDir); err == nil && s != nil {
		running = color.New(color.FgGreen).Sprintf("✓ pid %d", s.PID)
	}
	color.New(color.Faint, color.FgWhite).Printf("[%s: %s]\n", env.AppName, running)
}

func showInteractiveHelp() {
	fmt.Println("Commands:")
	fmt.Println("  help, h, ?      Show this help")
	fmt.Println("  status          Show whether the application is running")
	fmt.Println("  clear, cls      Clear the screen")
	fmt.Println("  exit, quit, q   Leave the interactive shell")
	fmt.Println("  <command>       Any launcher command, e.g. 'start --log'")
	fmt.Println()
	fmt.Println("Launcher commands:")
	fmt.Println("  install, start, stop, status, shortcut, doctor, logs, config, update, about")
}

// executeCommand dispatches one interactive line through the parser.
func executeCommand(args []string) {
	origArgs := os.Args
	os.Args = append([]string{origArgs[0]}, args...)
	defer func() { os.Args = origArgs }()

	parser := newParser()
	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Context.PrintUsage(false)
		}
		output.Error("%s", err)
		return
	}
	if err := ctx.Run(); err != nil {
		output.Error("%s", err)
		tips(err)
	}
}

func runInteractiveMode() (func(int), int) {
	output.Header("%s %s — interactive mode", name, version.Current)
	printInteractiveStatus()
	fmt.Println()
	output.Status("Type 'help' for commands or 'exit' to leave")
	fmt.Println()

	history, err := loadHistory()
	if err != nil {
		output.Warning("Failed to load command history: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(output.Translate("interactive.prompt"))
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line {
		case "exit", "quit", "q":
			if err := saveHistory(history); err != nil {
				output.Warning("Failed to save command history: %v", err)
			}
			fmt.Println(output.Translate("interactive.goodbye"))
			return func(int) {}, 0
		case "help", "h", "?":
			showInteractiveHelp()
			continue
		case "status":
			printInteractiveStatus()
			continue
		case "clear", "cls":
			fmt.Print("\033[2J\033[H")
			printInteractiveStatus()
			continue
		}

		if len(history) == 0 || history[len(history)-1] != line {
			history = append(history, line)
			if len(history) > 1000 {
				history = history[len(history)-1000:]
			}
		}

		args := parseQuotedArgs(line)
		if len(args) == 0 {
			continue
		}
		executeCommand(args)
		fmt.Println()
	}

	saveHistory(history)
	return func(int) {}, 0
}
