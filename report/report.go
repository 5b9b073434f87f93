// Package report exports booking records as a compressed report bundle. In client mode the bundle holds only
// sanitized records and a summary without financial figures, so it can be sent outside the business.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/mholt/archiver"

	"github.com/bookingdash/dashtool/booking"
	"github.com/bookingdash/dashtool/record"
	"github.com/bookingdash/dashtool/sanitize"
	"github.com/bookingdash/dashtool/util"
)

// Report modes.
const (
	ModeClient   = "client"
	ModeInternal = "internal"
)

// Files written into every bundle.
const (
	RecordsFile  = "Records.json"
	SummaryFile  = "Summary.json"
	ManifestFile = "Manifest.json"
)

// Config controls where and how the bundle is written.
type Config struct {
	// Destination is the directory the archive is written in.
	Destination string `json:"destination"`

	// Mode is ModeClient or ModeInternal.
	Mode string `json:"mode"`

	// Dryrun logs what would be written without touching the filesystem.
	Dryrun bool `json:"dryrun"`
}

// ValidateMode returns an error for unknown modes.
func ValidateMode(mode string) error {
	switch mode {
	case ModeClient, ModeInternal:
		return nil
	default:
		return fmt.Errorf("invalid report mode %q, must be %q or %q", mode, ModeClient, ModeInternal)
	}
}

// Exporter builds one report bundle and records metadata about the run, which is written out as the manifest.
type Exporter struct {
	l         hclog.Logger
	sanitizer *sanitize.Sanitizer
	tmpDir    string

	Start       time.Time `json:"started_at"`
	End         time.Time `json:"ended_at"`
	Duration    string    `json:"duration"`
	NumRecords  int       `json:"num_records"`
	NumRedacted int       `json:"num_redacted_fields"`
	Denylist    []string  `json:"denylist"`
	Config      Config    `json:"configuration"`

	// Archive is the path of the written bundle, empty until Run succeeds.
	Archive string `json:"-"`
}

// NewExporter returns an Exporter. A nil sanitizer uses sanitize.Default().
func NewExporter(cfg Config, s *sanitize.Sanitizer, logger hclog.Logger) *Exporter {
	if s == nil {
		s = sanitize.Default()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeClient
	}
	if cfg.Destination == "" {
		cfg.Destination = "."
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Exporter{
		l:         logger,
		sanitizer: s,
		Denylist:  s.Denylist(),
		Config:    cfg,
	}
}

// Run writes the bundle for records: it creates a temp directory, writes the records, summary and manifest into it,
// archives it into the destination and removes the temp directory. Every error is collected and returned together.
func (e *Exporter) Run(records []record.Record) error {
	if err := ValidateMode(e.Config.Mode); err != nil {
		return err
	}

	e.Start = time.Now()
	e.NumRecords = len(records)

	out, summary := e.prepare(records)

	if e.Config.Dryrun {
		e.l.Info("Dry run, nothing will be written",
			"mode", e.Config.Mode,
			"records", len(out),
			"redacted_fields", e.NumRedacted,
			"dest", filepath.Join(e.Config.Destination, DestinationFileName(e.Start)),
		)
		e.recordEnd()
		return nil
	}

	if err := e.CreateTemp(); err != nil {
		return err
	}

	var result *multierror.Error
	if err := e.WriteOutput(out, summary); err != nil {
		result = multierror.Append(result, err)
		e.l.Error("Failed writing report", "error", err)
	}
	if err := e.Cleanup(); err != nil {
		result = multierror.Append(result, err)
		e.l.Error("Failed to cleanup after the export", "error", err)
	}
	return result.ErrorOrNil()
}

// prepare picks the records and summary for the configured mode.
func (e *Exporter) prepare(records []record.Record) ([]record.Record, booking.Summary) {
	summary := booking.Summarize(booking.EnrichAll(records))
	if e.Config.Mode == ModeInternal {
		return records, summary
	}

	e.NumRedacted = 0
	for _, r := range records {
		removed := e.sanitizer.Removed(r)
		e.NumRedacted += len(removed)
		if len(removed) > 0 {
			e.l.Trace("Redacting fields", "fields", removed)
		}
	}
	return e.sanitizer.Records(records), summary.Client()
}

func (e *Exporter) recordEnd() {
	e.End = time.Now()
	e.Duration = fmt.Sprintf("%v seconds", e.End.Sub(e.Start).Seconds())
}

// CreateTemp creates the temporary directory the bundle is assembled in.
func (e *Exporter) CreateTemp() error {
	dir, err := os.MkdirTemp("", "dashtool-report")
	if err != nil {
		e.l.Error("Error creating temp directory", "message", err)
		return err
	}
	e.tmpDir = dir
	e.l.Debug("Created temp directory", "name", hclog.Fmt("%s", e.tmpDir))
	return nil
}

// WriteOutput writes the bundle files and the compressed archive.
func (e *Exporter) WriteOutput(records []record.Record, summary booking.Summary) error {
	if e.tmpDir == "" {
		return errors.New("temp directory not created")
	}
	if err := os.MkdirAll(e.Config.Destination, 0755); err != nil {
		return fmt.Errorf("creating destination %s: %w", e.Config.Destination, err)
	}

	name := uniqueName(e.Config.Destination, e.Start)
	bundle := filepath.Join(e.tmpDir, name)
	if err := os.Mkdir(bundle, 0755); err != nil {
		return err
	}

	if records == nil {
		records = []record.Record{}
	}
	rFile := filepath.Join(bundle, RecordsFile)
	if err := util.WriteJSON(records, rFile); err != nil {
		return err
	}
	e.l.Info("Created Records.json file", "dest", rFile)

	sFile := filepath.Join(bundle, SummaryFile)
	if err := util.WriteJSON(summary, sFile); err != nil {
		return err
	}
	e.l.Info("Created Summary.json file", "dest", sFile)

	e.recordEnd()
	mFile := filepath.Join(bundle, ManifestFile)
	if err := util.WriteJSON(e, mFile); err != nil {
		return err
	}
	e.l.Info("Created Manifest.json file", "dest", mFile)

	dest := filepath.Join(e.Config.Destination, name+".tar.gz")
	if err := archiver.NewTarGz().Archive([]string{bundle}, dest); err != nil {
		return fmt.Errorf("archiving report: %w", err)
	}
	e.Archive = dest
	e.l.Info("Compressed and archived report", "dest", dest)
	return nil
}

// Cleanup removes the temp directory.
func (e *Exporter) Cleanup() error {
	if e.tmpDir == "" {
		return nil
	}
	e.l.Debug("Cleaning up temporary files")
	err := os.RemoveAll(e.tmpDir)
	if err != nil {
		e.l.Warn("Failed to clean up temp dir", "message", err)
	}
	return err
}

// uniqueName returns BundleName(start), with a "-1", "-2", ... suffix when an archive of that name is already in dir.
func uniqueName(dir string, start time.Time) string {
	base := BundleName(start)
	name := base
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(dir, name+".tar.gz")); errors.Is(err, fs.ErrNotExist) {
			return name
		}
		name = fmt.Sprintf("%s-%d", base, i)
	}
}

// BundleName is the name of the directory inside the archive.
func BundleName(t time.Time) string {
	return "client-report-" + t.UTC().Format("20060102T150405Z")
}

// DestinationFileName is the archive name for a run started at t.
func DestinationFileName(t time.Time) string {
	return BundleName(t) + ".tar.gz"
}
