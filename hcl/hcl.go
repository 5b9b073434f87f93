package hcl

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/bookingdash/dashtool/color"
	"github.com/bookingdash/dashtool/report"
	"github.com/bookingdash/dashtool/sanitize"
	"github.com/bookingdash/dashtool/util"
)

type HCL struct {
	Sanitize *Sanitize `hcl:"sanitize,block" json:"sanitize"`
	Color    *Color    `hcl:"color,block" json:"color"`
	Report   *Report   `hcl:"report,block" json:"report"`
}

// Sanitize configures which record fields are removed before sharing. Omitted lists use the built-in defaults.
type Sanitize struct {
	Denylist       []string `hcl:"denylist,optional" json:"denylist"`
	InternalKeys   []string `hcl:"internal_keys,optional" json:"internal_keys"`
	InternalPrefix string   `hcl:"internal_prefix,optional" json:"internal_prefix"`
}

type Color struct {
	Size           *int `hcl:"size,optional" json:"size"`
	WhiteThreshold *int `hcl:"white_threshold,optional" json:"white_threshold"`
	BlackThreshold *int `hcl:"black_threshold,optional" json:"black_threshold"`
}

type Report struct {
	Destination string `hcl:"destination,optional" json:"destination"`
	Mode        string `hcl:"mode,optional" json:"mode"`
}

// Parse takes a file path and decodes the file from disk into HCL types, then validates it.
func Parse(path string) (HCL, error) {
	var h HCL
	err := hclsimple.DecodeFile(path, nil, &h)
	if err != nil {
		return HCL{}, err
	}
	if err = Validate(h); err != nil {
		return HCL{}, err
	}
	return h, nil
}

// Load parses the config at path after expanding "~". An empty path gives an empty HCL, so every block falls back
// to its defaults.
func Load(path string) (HCL, error) {
	if path == "" {
		return HCL{}, nil
	}
	expanded, err := util.ExpandPath(path)
	if err != nil {
		return HCL{}, err
	}
	return Parse(expanded)
}

// Validate checks every block and returns all problems found, not just the first.
func Validate(h HCL) error {
	hclog.L().Trace("hcl.Validate()", "hcl", h)
	var result *multierror.Error
	if err := ValidateSanitize(h.Sanitize); err != nil {
		result = multierror.Append(result, err)
	}
	if err := ValidateColor(h.Color); err != nil {
		result = multierror.Append(result, err)
	}
	if err := ValidateReport(h.Report); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// ValidateSanitize rejects blank denylist entries, which would match every key, and blank internal keys.
func ValidateSanitize(s *Sanitize) error {
	if s == nil {
		return nil
	}
	var result *multierror.Error
	for i, d := range s.Denylist {
		if d == "" {
			result = multierror.Append(result, fmt.Errorf("sanitize: denylist entry %d is empty", i))
		}
	}
	for i, k := range s.InternalKeys {
		if k == "" {
			result = multierror.Append(result, fmt.Errorf("sanitize: internal_keys entry %d is empty", i))
		}
	}
	return result.ErrorOrNil()
}

// ValidateColor checks the sampling size and that thresholds fit in a colour channel.
func ValidateColor(c *Color) error {
	if c == nil {
		return nil
	}
	var result *multierror.Error
	if c.Size != nil && *c.Size <= 0 {
		result = multierror.Append(result, fmt.Errorf("color: size must be positive, size=%d", *c.Size))
	}
	thresholds := []struct {
		name string
		v    *int
	}{
		{"white_threshold", c.WhiteThreshold},
		{"black_threshold", c.BlackThreshold},
	}
	for _, th := range thresholds {
		if th.v != nil && (*th.v < 0 || *th.v > 255) {
			result = multierror.Append(result, fmt.Errorf("color: %s must be between 0 and 255, %s=%d", th.name, th.name, *th.v))
		}
	}
	return result.ErrorOrNil()
}

func ValidateReport(r *Report) error {
	if r == nil || r.Mode == "" {
		return nil
	}
	if err := report.ValidateMode(r.Mode); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// MapSanitizer maps the HCL block to a "real" sanitize.Sanitizer. A nil block gives the default sanitizer.
func MapSanitizer(s *Sanitize) (*sanitize.Sanitizer, error) {
	if s == nil {
		return sanitize.Default(), nil
	}
	if err := ValidateSanitize(s); err != nil {
		return nil, err
	}

	denylist := s.Denylist
	if denylist == nil {
		denylist = sanitize.DefaultDenylist
	}
	keys := s.InternalKeys
	if keys == nil {
		keys = sanitize.DefaultInternalKeys
	}
	return sanitize.New(sanitize.Config{
		Denylist: denylist,
		Internal: sanitize.AnyOf(sanitize.Keys(keys...), sanitize.Prefix(s.InternalPrefix)),
	}), nil
}

// MapColor maps the HCL block to color.Options, filling unset values from color.DefaultOptions.
func MapColor(c *Color) (color.Options, error) {
	opts := color.DefaultOptions
	if c == nil {
		return opts, nil
	}
	if err := ValidateColor(c); err != nil {
		return color.Options{}, err
	}
	if c.Size != nil {
		opts.Size = *c.Size
	}
	if c.WhiteThreshold != nil {
		opts.WhiteThreshold = uint8(*c.WhiteThreshold)
	}
	if c.BlackThreshold != nil {
		opts.BlackThreshold = uint8(*c.BlackThreshold)
	}
	return opts, nil
}

// MapReport maps the HCL block to report.Config. Unset values are left empty for the exporter to default.
func MapReport(r *Report) (report.Config, error) {
	if r == nil {
		return report.Config{}, nil
	}
	if err := ValidateReport(r); err != nil {
		return report.Config{}, err
	}
	return report.Config{
		Destination: r.Destination,
		Mode:        r.Mode,
	}, nil
}
