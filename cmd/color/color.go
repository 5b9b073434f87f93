package color

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/mitchellh/cli"

	"github.com/bookingdash/dashtool/cmd/help"
	"github.com/bookingdash/dashtool/cmd/returns"
	"github.com/bookingdash/dashtool/color"
	"github.com/bookingdash/dashtool/hcl"
	"github.com/bookingdash/dashtool/util"
)

const helpText = `Usage: dashtool color [options] <image>

Prints the dominant colour of an image as #rrggbb, ignoring near-white and near-black pixels.
Sampling size and thresholds can be set in the color block of the configuration file.
`

const synopsis = `Find the dominant colour of a logo`

// noColorText is printed when every pixel was filtered out.
const noColorText = "No color found"

const configUsageText = "Path to HCL configuration file"

var _ cli.Command = &cmd{}

type cmd struct {
	ui    cli.Ui
	flags *flag.FlagSet

	config string
}

func (c *cmd) init() {
	c.flags = flag.NewFlagSet("color", flag.ContinueOnError)
	c.flags.StringVar(&c.config, "config", "", configUsageText)
	c.flags.SetOutput(io.Discard)
}

func New(ui cli.Ui) *cmd {
	c := &cmd{ui: ui}
	c.init()
	return c
}

// CommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *cmd.
func CommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return New(ui), nil
	}
}

func (c *cmd) Help() string {
	return help.Usage(helpText, c.flags)
}

func (c *cmd) Synopsis() string {
	return synopsis
}

func (c *cmd) Run(args []string) int {
	if err := c.flags.Parse(args); err != nil {
		c.ui.Warn(err.Error())
		c.ui.Warn(c.Help())
		return returns.FlagParseError
	}
	if c.flags.NArg() != 1 {
		c.ui.Warn(fmt.Sprintf("expected exactly one image, got %d arguments", c.flags.NArg()))
		c.ui.Warn(c.Help())
		return returns.FlagParseError
	}

	l := util.ConfigureLogging("dashtool")

	cfg, err := hcl.Load(c.config)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Failed to load configuration: %s", err))
		return returns.ConfigError
	}
	opts, err := hcl.MapColor(cfg.Color)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Invalid color configuration: %s", err))
		return returns.ConfigError
	}

	path, err := util.ExpandPath(c.flags.Arg(0))
	if err != nil {
		c.ui.Error(err.Error())
		return returns.InputError
	}

	rgba, err := color.DominantFile(path, opts)
	switch {
	case errors.Is(err, color.ErrNoColor):
		l.Debug("Every pixel was filtered as background", "path", path, "options", opts)
		c.ui.Output(noColorText)
		return returns.NotFound
	case err != nil:
		c.ui.Error(fmt.Sprintf("Failed to read %s: %s", path, err))
		return returns.InputError
	}

	c.ui.Output(color.Hex(rgba))
	return returns.Success
}
