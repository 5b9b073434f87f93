package export

const (
	destinationUsageText = "Path to the directory the report archive should be written in"
	destUsageText        = "Shorthand for -destination"
	modeUsageText        = "Report mode, 'client' strips financial fields and revenue figures, 'internal' keeps everything"
	dryrunUsageText      = "Logs what would be exported without writing anything"
	configUsageText      = "Path to HCL configuration file"
)
