package inspect

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/bookingdash/dashtool/cmd/help"
	"github.com/bookingdash/dashtool/cmd/returns"
	"github.com/bookingdash/dashtool/sheet"
	"github.com/bookingdash/dashtool/util"
)

const helpText = `Usage: dashtool inspect [options] <file>

Describes a booking spreadsheet: its column names, a preview of the first rows as a Markdown table,
and the inferred type of each column.
`

const synopsis = `Show the columns and first rows of a spreadsheet`

const (
	defaultRows   = 3
	rowsUsageText = "Number of rows to preview"
)

var _ cli.Command = &cmd{}

type cmd struct {
	ui    cli.Ui
	flags *flag.FlagSet

	rows int
}

func (c *cmd) init() {
	c.flags = flag.NewFlagSet("inspect", flag.ContinueOnError)
	c.flags.IntVar(&c.rows, "rows", defaultRows, rowsUsageText)
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
	if err := c.parseFlags(args); err != nil {
		c.ui.Warn(err.Error())
		c.ui.Warn(c.Help())
		return returns.FlagParseError
	}

	l := util.ConfigureLogging("dashtool")

	path, err := util.ExpandPath(c.flags.Arg(0))
	if err != nil {
		c.ui.Error(err.Error())
		return returns.InputError
	}
	records, err := sheet.Load(path)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Failed to read %s: %s", path, err))
		return returns.InputError
	}
	l.Debug("Loaded sheet", "path", path, "rows", len(records))

	var buf bytes.Buffer
	if err = sheet.Inspect(records, c.rows).WriteMarkdown(&buf); err != nil {
		c.ui.Error(err.Error())
		return returns.OutputError
	}
	c.ui.Output(strings.TrimRight(buf.String(), "\n"))
	return returns.Success
}

func (c *cmd) parseFlags(args []string) error {
	if err := c.flags.Parse(args); err != nil {
		return err
	}
	if c.rows < 0 {
		return fmt.Errorf("-rows must not be negative, rows=%d", c.rows)
	}
	if c.flags.NArg() != 1 {
		return fmt.Errorf("expected exactly one file, got %d arguments", c.flags.NArg())
	}
	return nil
}
