package sanitize

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/bookingdash/dashtool/cmd/help"
	"github.com/bookingdash/dashtool/cmd/returns"
	"github.com/bookingdash/dashtool/hcl"
	"github.com/bookingdash/dashtool/record"
	"github.com/bookingdash/dashtool/sheet"
	"github.com/bookingdash/dashtool/util"
)

// helpText is the short usage guidance shown under --help.
const helpText = `Usage: dashtool sanitize [options] <input>

Removes financial and internal fields from every record in <input> and writes the rest as a JSON array.
The input may be a spreadsheet (.xlsx), a CSV file or a JSON array of objects. Field order is kept.
`

// synopsis is provided in the help output of the enclosing scope, for example `dashtool --help`.
const synopsis = `Strip financial fields from booking records`

var _ cli.Command = &cmd{}

type cmd struct {
	ui    cli.Ui
	flags *flag.FlagSet

	output string
	config string
}

func (c *cmd) init() {
	// flag.ContinueOnError allows flag.Parse to return an error if one comes up, rather than doing an `os.Exit(2)`
	// on its own.
	c.flags = flag.NewFlagSet("sanitize", flag.ContinueOnError)
	c.flags.StringVar(&c.output, "output", "", outputUsageText)
	c.flags.StringVar(&c.config, "config", "", configUsageText)

	// Hide Go's own usage message so that Help is printed instead.
	c.flags.SetOutput(io.Discard)
}

// New produces a new *cmd pointer, initialized for use in a CLI application.
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

// Help provides help text to users who pass in the --help flag or who enter invalid options.
func (c *cmd) Help() string {
	return help.Usage(helpText, c.flags)
}

// Synopsis provides a brief description of the command, for inclusion in the application's primary --help.
func (c *cmd) Synopsis() string {
	return synopsis
}

// Run executes the command. On successful execution, it returns 0. On unsuccessful execution, a non-zero integer
// is returned instead.
func (c *cmd) Run(args []string) int {
	if err := c.parseFlags(args); err != nil {
		c.ui.Warn(err.Error())
		c.ui.Warn(c.Help())
		return returns.FlagParseError
	}

	l := util.ConfigureLogging("dashtool")

	cfg, err := hcl.Load(c.config)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Failed to load configuration: %s", err))
		return returns.ConfigError
	}
	s, err := hcl.MapSanitizer(cfg.Sanitize)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Invalid sanitize configuration: %s", err))
		return returns.ConfigError
	}

	input, err := util.ExpandPath(c.flags.Arg(0))
	if err != nil {
		c.ui.Error(err.Error())
		return returns.InputError
	}
	records, err := sheet.Load(input)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Failed to read %s: %s", input, err))
		return returns.InputError
	}

	for i, r := range records {
		if removed := s.Removed(r); len(removed) > 0 {
			l.Debug("Removing fields", "record", i, "fields", removed)
		}
	}
	out := s.Records(records)

	if err = c.write(out); err != nil {
		c.ui.Error(fmt.Sprintf("Failed to write records: %s", err))
		return returns.OutputError
	}
	l.Info("Sanitized records", "input", input, "records", len(out))
	return returns.Success
}

func (c *cmd) parseFlags(args []string) error {
	if err := c.flags.Parse(args); err != nil {
		return err
	}
	if c.flags.NArg() != 1 {
		return fmt.Errorf("expected exactly one input file, got %d arguments", c.flags.NArg())
	}
	return nil
}

// write sends records to -output, or to the UI when no output file was given.
func (c *cmd) write(records []record.Record) error {
	if c.output == "" {
		var buf bytes.Buffer
		if err := record.EncodeRecords(&buf, records); err != nil {
			return err
		}
		c.ui.Output(strings.TrimRight(buf.String(), "\n"))
		return nil
	}

	path, err := util.ExpandPath(c.output)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = record.EncodeRecords(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
