package cmd

import (
	"fmt"
	"os"

	"kgchat-launcher/internal/cli/output"
	env "kgchat-launcher/pkg"
	"kgchat-launcher/pkg/manifest"
	"kgchat-launcher/pkg/python"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// DoctorCmd checks the environment the launcher depends on.
type DoctorCmd struct {
	Python string `help:"Python interpreter to check" type:"path" placeholder:"PATH"`
}

type check struct {
	name   string
	ok     bool
	detail string
}

func (c *DoctorCmd) Run(ctx *kong.Context) error {
	var checks []check

	root, rootErr := env.ResolveRoot()
	if rootErr != nil {
		checks = append(checks, check{"Application directory", false, rootErr.Error()})
	} else {
		checks = append(checks, check{"Application directory", true, root})

		if man, err := manifest.Parse(env.ManifestPath(root)); err != nil {
			checks = append(checks, check{"Dependency manifest", false, err.Error()})
		} else {
			checks = append(checks, check{"Dependency manifest",
				true, fmt.Sprintf("%d requirements", man.Count())})
		}

		entry := env.EntryPointPath(root)
		if _, err := os.Stat(entry); err != nil {
			checks = append(checks, check{"Entry point", false, entry + " missing"})
		} else {
			checks = append(checks, check{"Entry point", true, entry})
		}

		if icon := env.IconPath(root); icon != "" {
			checks = append(checks, check{"Icon asset", true, icon})
		} else {
			checks = append(checks, check{"Icon asset", false, "no icon found under src/icons"})
		}
	}

	cfg, _ := LoadLauncherConfig()
	py, pyErr := resolvePython(c.Python, cfg)
	if pyErr != nil {
		checks = append(checks, check{"Python interpreter", false, pyErr.Error()})
	} else {
		checks = append(checks, check{"Python interpreter", true, py})

		if v, err := python.Version(py); err != nil {
			checks = append(checks, check{"Python version", false, err.Error()})
		} else if !python.Supported(v) {
			checks = append(checks, check{"Python version", false,
				fmt.Sprintf("%s found, %s or newer required", v, python.MinVersion)})
		} else {
			checks = append(checks, check{"Python version", true, v.String()})
		}

		if python.PipAvailable(py) {
			checks = append(checks, check{"pip module", true, ""})
		} else {
			checks = append(checks, check{"pip module", false, "python -m pip failed"})
		}
	}

	output.Header("Environment check")
	fmt.Println()

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"", "Check", "Detail"})

	failed := 0
	for _, ch := range checks {
		mark := color.New(color.FgGreen).Sprint("✓")
		if !ch.ok {
			mark = color.New(color.FgRed).Sprint("✗")
			failed++
		}
		t.AppendRow(table.Row{mark, ch.name, ch.detail})
	}
	t.Render()
	fmt.Println()

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	output.Success("All %d checks passed", len(checks))
	return nil
}
