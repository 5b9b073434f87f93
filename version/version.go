// Package version reports the dashtool build. Release builds set gitCommit and buildDate with
// -ldflags "-X github.com/bookingdash/dashtool/version.gitCommit=...".
package version

import (
	"fmt"
)

const slug = "dashtool v"

var (
	// version is <MAJOR>.<MINOR>.<PATCH>.
	version = "0.1.0"

	// prerelease is empty for final releases, otherwise "dev", "beta", "rc1" and so on.
	prerelease = ""

	// metadata is optional semver build metadata.
	metadata string

	gitCommit string
	buildDate string
)

// Version describes one build of the tool.
type Version struct {
	Version    string `json:"version,omitempty"`
	Prerelease string `json:"prerelease,omitempty"`
	Metadata   string `json:"build_metadata,omitempty"`
	Revision   string `json:"revision,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

// GetVersion returns the version of the running binary.
func GetVersion() Version {
	return Version{
		Version:    version,
		Prerelease: prerelease,
		Metadata:   metadata,
		Revision:   gitCommit,
		BuildDate:  buildDate,
	}
}

// SemanticVersion renders MAJOR.MINOR.PATCH[-prerelease][+metadata].
func (v Version) SemanticVersion() string {
	sv := v.Version
	if v.Prerelease != "" {
		sv += "-" + v.Prerelease
	}
	if v.Metadata != "" {
		sv += "+" + v.Metadata
	}
	return sv
}

// FullVersionNumber renders e.g. "dashtool v0.1.0 (abc123), built 2025-01-13". The revision is only shown when rev
// is true.
func (v Version) FullVersionNumber(rev bool) string {
	s := slug + v.SemanticVersion()
	if rev && v.Revision != "" {
		s += fmt.Sprintf(" (%s)", v.Revision)
	}
	if v.BuildDate != "" {
		s += fmt.Sprintf(", built %s", v.BuildDate)
	}
	return s
}
