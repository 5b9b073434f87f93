package main

import (
	"bufio"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	colorable "github.com/mattn/go-colorable"
	"github.com/mitchellh/cli"

	colorcmd "github.com/bookingdash/dashtool/cmd/color"
	"github.com/bookingdash/dashtool/cmd/export"
	"github.com/bookingdash/dashtool/cmd/inspect"
	sanitizecmd "github.com/bookingdash/dashtool/cmd/sanitize"
	"github.com/bookingdash/dashtool/cmd/summary"
	versioncmd "github.com/bookingdash/dashtool/cmd/version"
	"github.com/bookingdash/dashtool/version"
)

// envNoColor disables coloured warnings and errors when set to any value.
const envNoColor = "DASHTOOL_NO_COLOR"

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	ui := newUI(stdout, stderr)

	c := cli.NewCLI("dashtool", version.GetVersion().FullVersionNumber(false))
	c.Args = args
	c.Commands = commands(ui)
	c.HelpWriter = stdout
	c.ErrorWriter = stderr

	exitStatus, err := c.Run()
	if err != nil {
		hclog.L().Error("command failed", "error", err)
	}
	return exitStatus
}

// commands maps subcommand names to their factories.
func commands(ui cli.Ui) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"color":    colorcmd.CommandFactory(ui),
		"export":   export.CommandFactory(ui),
		"inspect":  inspect.CommandFactory(ui),
		"sanitize": sanitizecmd.CommandFactory(ui),
		"summary":  summary.CommandFactory(ui),
		"version":  versioncmd.CommandFactory(ui),
	}
}

// newUI builds the UI the commands write to. Warnings and errors are coloured only when stdout is a terminal
// and colour has not been disabled.
func newUI(stdout, stderr io.Writer) cli.Ui {
	useColor := os.Getenv(envNoColor) == "" && !color.NoColor
	if useColor {
		if f, ok := stdout.(*os.File); ok {
			stdout = colorable.NewColorable(f)
		}
		if f, ok := stderr.(*os.File); ok {
			stderr = colorable.NewColorable(f)
		}
	} else {
		stdout = colorable.NewNonColorable(stdout)
		stderr = colorable.NewNonColorable(stderr)
	}

	basic := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      stdout,
		ErrorWriter: stderr,
	}
	if !useColor {
		return basic
	}
	return &cli.ColoredUi{
		ErrorColor: cli.UiColorRed,
		WarnColor:  cli.UiColorYellow,
		Ui:         basic,
	}
}
