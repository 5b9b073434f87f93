package hcl

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookingdash/dashtool/color"
	"github.com/bookingdash/dashtool/record"
	"github.com/bookingdash/dashtool/report"
	"github.com/bookingdash/dashtool/sanitize"
)

func intPtr(i int) *int { return &i }

func TestParse(t *testing.T) {
	testCases := []struct {
		name   string
		path   string
		expect HCL
	}{
		{
			name:   "Empty config is valid",
			path:   "../tests/resources/config/empty.hcl",
			expect: HCL{},
		},
		{
			name: "Sanitize block only is valid",
			path: "../tests/resources/config/sanitize.hcl",
			expect: HCL{
				Sanitize: &Sanitize{
					Denylist:       []string{"secret", "Margin"},
					InternalKeys:   []string{"_revenue", "_cost_basis"},
					InternalPrefix: "__",
				},
			},
		},
		{
			name: "Config with every block is valid",
			path: "../tests/resources/config/config.hcl",
			expect: HCL{
				Sanitize: &Sanitize{
					InternalPrefix: "_",
				},
				Color: &Color{
					Size:           intPtr(64),
					WhiteThreshold: intPtr(230),
					BlackThreshold: intPtr(30),
				},
				Report: &Report{
					Destination: "./reports",
					Mode:        report.ModeInternal,
				},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Parse(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, res)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("../tests/resources/config/malformed.hcl")
	assert.Error(t, err)

	_, err = Parse("../tests/resources/config/does-not-exist.hcl")
	assert.Error(t, err)

	// every problem in the file is reported at once
	_, err = Parse("../tests/resources/config/invalid.hcl")
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.WrappedErrors(), 4)
	assert.Contains(t, err.Error(), "denylist entry 1 is empty")
	assert.Contains(t, err.Error(), "size must be positive")
	assert.Contains(t, err.Error(), "white_threshold must be between 0 and 255")
	assert.Contains(t, err.Error(), `invalid report mode "public"`)
}

func TestValidateSanitize(t *testing.T) {
	tcs := []struct {
		name    string
		cfg     *Sanitize
		wantErr bool
	}{
		{name: "nil block", cfg: nil},
		{name: "empty block", cfg: &Sanitize{}},
		{name: "explicit lists", cfg: &Sanitize{Denylist: []string{"fee"}, InternalKeys: []string{"_x"}}},
		{name: "blank denylist entry", cfg: &Sanitize{Denylist: []string{""}}, wantErr: true},
		{name: "blank internal key", cfg: &Sanitize{InternalKeys: []string{"_revenue", ""}}, wantErr: true},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSanitize(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMapSanitizer(t *testing.T) {
	input := record.Of(
		"date", "13/01/2025",
		"totals", "£543.38",
		"_revenue", 543.38,
		"_date", "2025-01-13",
		"__meta", "x",
		"secret_note", "y",
		"Gross Margin", 0.4,
	)

	tcs := []struct {
		name   string
		cfg    *Sanitize
		expect []string
	}{
		{
			name:   "nil block uses defaults",
			cfg:    nil,
			expect: []string{"date", "_date", "__meta", "secret_note", "Gross Margin"},
		},
		{
			name:   "empty block uses defaults",
			cfg:    &Sanitize{},
			expect: []string{"date", "_date", "__meta", "secret_note", "Gross Margin"},
		},
		{
			name:   "custom denylist, internal keys and prefix",
			cfg:    &Sanitize{Denylist: []string{"secret", "Margin"}, InternalKeys: []string{"_revenue"}, InternalPrefix: "__"},
			expect: []string{"date", "totals", "_date"},
		},
		{
			name:   "underscore prefix removes every internal field",
			cfg:    &Sanitize{InternalPrefix: "_"},
			expect: []string{"date", "secret_note", "Gross Margin"},
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			s, err := MapSanitizer(tc.cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, s.Record(input).Keys())
		})
	}

	_, err := MapSanitizer(&Sanitize{Denylist: []string{""}})
	assert.Error(t, err)
}

func TestMapSanitizer_DefaultDenylist(t *testing.T) {
	s, err := MapSanitizer(&Sanitize{InternalKeys: []string{"_x"}})
	require.NoError(t, err)
	assert.Equal(t, sanitize.DefaultDenylist, s.Denylist())
	assert.True(t, s.Sensitive("_x"))
	assert.False(t, s.Sensitive("_date"))
}

func TestMapColor(t *testing.T) {
	opts, err := MapColor(nil)
	require.NoError(t, err)
	assert.Equal(t, color.DefaultOptions, opts)

	opts, err = MapColor(&Color{BlackThreshold: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, color.Options{Size: 50, WhiteThreshold: 240, BlackThreshold: 0}, opts)

	opts, err = MapColor(&Color{Size: intPtr(10), WhiteThreshold: intPtr(255)})
	require.NoError(t, err)
	assert.Equal(t, color.Options{Size: 10, WhiteThreshold: 255, BlackThreshold: 20}, opts)

	_, err = MapColor(&Color{BlackThreshold: intPtr(-1)})
	assert.Error(t, err)
	_, err = MapColor(&Color{Size: intPtr(-5)})
	assert.Error(t, err)
}

func TestMapReport(t *testing.T) {
	cfg, err := MapReport(nil)
	require.NoError(t, err)
	assert.Equal(t, report.Config{}, cfg)

	cfg, err = MapReport(&Report{Destination: "/tmp/reports", Mode: report.ModeClient})
	require.NoError(t, err)
	assert.Equal(t, report.Config{Destination: "/tmp/reports", Mode: report.ModeClient}, cfg)

	_, err = MapReport(&Report{Mode: "everyone"})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	h, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, HCL{}, h)

	h, err = Load("../tests/resources/config/sanitize.hcl")
	require.NoError(t, err)
	require.NotNil(t, h.Sanitize)
	assert.Equal(t, "__", h.Sanitize.InternalPrefix)

	_, err = Load("../tests/resources/config/invalid.hcl")
	assert.Error(t, err)
}
