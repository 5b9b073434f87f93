package version

import (
	"github.com/mitchellh/cli"

	"github.com/bookingdash/dashtool/cmd/returns"
	"github.com/bookingdash/dashtool/version"
)

const helpText = `Usage: dashtool version`
const synopsisText = `Print the current version of dashtool`

var _ cli.Command = &cmd{}

type cmd struct {
	ui cli.Ui
}

func New(ui cli.Ui) *cmd {
	return &cmd{ui: ui}
}

// CommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *cmd.
func CommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return New(ui), nil
	}
}

func (c cmd) Help() string {
	return helpText
}

func (c cmd) Run([]string) int {
	v := version.GetVersion()
	c.ui.Output(v.FullVersionNumber(true))

	return returns.Success
}

func (c cmd) Synopsis() string {
	return synopsisText
}
