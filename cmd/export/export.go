package export

import (
	"flag"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/bookingdash/dashtool/cmd/help"
	"github.com/bookingdash/dashtool/cmd/returns"
	"github.com/bookingdash/dashtool/hcl"
	"github.com/bookingdash/dashtool/report"
	"github.com/bookingdash/dashtool/sheet"
	"github.com/bookingdash/dashtool/util"
)

// helpText is the short usage guidance shown under --help.
const helpText = `Usage: dashtool export [options] <input>

Writes a compressed report bundle for the bookings in <input>. The bundle holds the records, a KPI
summary and a manifest. Client reports contain sanitized records and no revenue figures.
`

// synopsis is provided in the help output of the enclosing scope, for example `dashtool --help`.
const synopsis = `Export a shareable report bundle`

var _ cli.Command = &cmd{}

type cmd struct {
	ui    cli.Ui
	flags *flag.FlagSet

	destination string
	mode        string
	dryrun      bool
	config      string
}

func (c *cmd) init() {
	c.flags = flag.NewFlagSet("export", flag.ContinueOnError)
	c.flags.StringVar(&c.destination, "destination", ".", destinationUsageText)
	c.flags.StringVar(&c.destination, "dest", ".", destUsageText)
	c.flags.StringVar(&c.mode, "mode", report.ModeClient, modeUsageText)
	c.flags.BoolVar(&c.dryrun, "dryrun", false, dryrunUsageText)
	c.flags.StringVar(&c.config, "config", "", configUsageText)

	// When invalid flags are provided, Go will output a usage message of its own. If we direct our flag set to
	// io.Discard, it will effectively be hidden, allowing us to print our own Help message upon failure.
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

	hclCfg, err := hcl.Load(c.config)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Failed to load configuration: %s", err))
		return returns.ConfigError
	}
	l.Debug("HCL config is", "hcl", hclCfg)

	s, err := hcl.MapSanitizer(hclCfg.Sanitize)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Invalid sanitize configuration: %s", err))
		return returns.ConfigError
	}
	base, err := hcl.MapReport(hclCfg.Report)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Invalid report configuration: %s", err))
		return returns.ConfigError
	}
	cfg, err := c.mergeConfig(base)
	if err != nil {
		c.ui.Error(err.Error())
		return returns.ConfigError
	}
	l.Debug("merged cfg", "cfg", hclog.Fmt("%+v", cfg))

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

	e := report.NewExporter(cfg, s, l.Named("export"))
	if err = e.Run(records); err != nil {
		c.ui.Error(fmt.Sprintf("Failed to export report: %s", err))
		return returns.OutputError
	}

	if e.Archive != "" {
		c.ui.Output(e.Archive)
	}
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

// mergeConfig applies flags on top of the HCL report block. Only flags given on the command line override HCL.
func (c *cmd) mergeConfig(cfg report.Config) (report.Config, error) {
	c.flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "destination", "dest":
			cfg.Destination = c.destination
		case "mode":
			cfg.Mode = c.mode
		}
	})
	cfg.Dryrun = c.dryrun

	if cfg.Destination == "" {
		cfg.Destination = c.destination
	}
	if cfg.Mode == "" {
		cfg.Mode = c.mode
	}
	dest, err := util.ExpandPath(cfg.Destination)
	if err != nil {
		return report.Config{}, err
	}
	cfg.Destination = dest

	if err = report.ValidateMode(cfg.Mode); err != nil {
		return report.Config{}, err
	}
	return cfg, nil
}
