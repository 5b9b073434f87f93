package summary

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/bookingdash/dashtool/booking"
	"github.com/bookingdash/dashtool/cmd/help"
	"github.com/bookingdash/dashtool/cmd/returns"
	"github.com/bookingdash/dashtool/util"
)

const helpText = `Usage: dashtool summary [options] <input>

Prints the dashboard KPIs for the bookings in <input>: booking and location counts, payment types,
daily volume, statuses and the busiest regions. Revenue figures are included unless -client is set.
`

const synopsis = `Summarize booking KPIs`

const (
	jsonUsageText   = "Print the summary as JSON instead of a text table"
	clientUsageText = "Leave out every revenue figure, for summaries shared with clients"
)

var _ cli.Command = &cmd{}

type cmd struct {
	ui    cli.Ui
	flags *flag.FlagSet

	json   bool
	client bool
}

func (c *cmd) init() {
	c.flags = flag.NewFlagSet("summary", flag.ContinueOnError)
	c.flags.BoolVar(&c.json, "json", false, jsonUsageText)
	c.flags.BoolVar(&c.client, "client", false, clientUsageText)
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
		c.ui.Warn(fmt.Sprintf("expected exactly one input file, got %d arguments", c.flags.NArg()))
		c.ui.Warn(c.Help())
		return returns.FlagParseError
	}

	l := util.ConfigureLogging("dashtool")

	records, err := loadRecords(c.flags.Arg(0))
	if err != nil {
		c.ui.Error(err.Error())
		return returns.InputError
	}

	s := booking.Summarize(booking.EnrichAll(records))
	if c.client {
		s = s.Client()
	}
	l.Debug("Summarized bookings", "bookings", s.Bookings, "client", c.client)

	var out string
	if c.json {
		bts, err := util.InterfaceToJSON(s)
		if err != nil {
			c.ui.Error(err.Error())
			return returns.OutputError
		}
		out = string(bts)
	} else {
		var buf bytes.Buffer
		if err = s.WriteText(&buf); err != nil {
			c.ui.Error(err.Error())
			return returns.OutputError
		}
		out = strings.TrimRight(buf.String(), "\n")
	}
	c.ui.Output(out)
	return returns.Success
}
