// Package returns includes a set of semantic return codes that dashtool commands use to indicate their success or
// failure, so that scripts calling the tool can tell a bad flag apart from an unreadable sheet.
//
// Groups of errors are numbered using an offset of iota, so that new errors can be added with lower risk of
// accidental duplication of return codes.
package returns

// Success indicates a successful command execution.
const Success int = 0

// The following error group is intended for issues within the initial setup process of a command's execution.
const (
	// FlagParseError indicates that a command was unable to successfully parse the flags/arguments provided to it.
	FlagParseError int = iota + 16

	// ConfigError is returned when the HCL configuration file cannot be loaded or is invalid.
	ConfigError
)

// The following error group is intended for issues reading input or writing results.
const (
	// InputError is returned when the input file cannot be read or decoded.
	InputError int = iota + 32

	// OutputError is returned when results cannot be written.
	OutputError

	// NotFound is returned when a command completed but found nothing, such as an image with no dominant colour.
	NotFound
)
