package sanitize

const (
	outputUsageText = "Path of the JSON file the sanitized records are written to. Defaults to stdout"
	configUsageText = "Path to HCL configuration file"
)
