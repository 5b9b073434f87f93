package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, version, v.Version)
	assert.Equal(t, prerelease, v.Prerelease)
	assert.Equal(t, gitCommit, v.Revision)
}

func TestVersion_SemanticVersion(t *testing.T) {
	testCases := []struct {
		name   string
		v      Version
		expect string
	}{
		{name: "Only version", v: Version{Version: "0.0.0"}, expect: "0.0.0"},
		{name: "Prerelease", v: Version{Version: "0.0.0", Prerelease: "dev"}, expect: "0.0.0-dev"},
		{name: "Metadata", v: Version{Version: "0.0.0", Metadata: "buildinfo"}, expect: "0.0.0+buildinfo"},
		{name: "All", v: Version{Version: "0.0.0", Prerelease: "rc1", Metadata: "buildinfo"}, expect: "0.0.0-rc1+buildinfo"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.v.SemanticVersion())
		})
	}
}

func TestVersion_FullVersionNumber(t *testing.T) {
	v := Version{Version: "1.2.3", Revision: "abc123", BuildDate: "2025-01-13"}
	assert.Equal(t, "dashtool v1.2.3 (abc123), built 2025-01-13", v.FullVersionNumber(true))
	assert.Equal(t, "dashtool v1.2.3, built 2025-01-13", v.FullVersionNumber(false))
	assert.Equal(t, "dashtool v1.2.3", Version{Version: "1.2.3"}.FullVersionNumber(true))
}
