package flags

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	configv1 "github.com/openshift/smsxml2html/pkg/apis/config/v1"
	"github.com/openshift/smsxml2html/pkg/html/conversationhtml"
	"github.com/openshift/smsxml2html/pkg/identity"
)

// OutputFlags describe where an archive is written and how it is rendered.
type OutputFlags struct {
	OwnerNumber string
	OutputDir   string
	ChunkSize   int
	Timezone    string
	Title       string
}

func NewOutputFlags() *OutputFlags {
	return &OutputFlags{
		ChunkSize: conversationhtml.DefaultChunkSize,
	}
}

func (f *OutputFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&f.OwnerNumber, "number", "n", f.OwnerNumber, "Phone number of the device the backup was taken from")
	fs.StringVarP(&f.OutputDir, "output", "o", f.OutputDir, "Directory the archive folder is created in")
	fs.IntVar(&f.ChunkSize, "chunk-size", f.ChunkSize, "Rendered size in bytes above which a conversation is split into pages")
	fs.StringVar(&f.Timezone, "timezone", f.Timezone, "IANA time zone for dates and month grouping (default local)")
	fs.StringVar(&f.Title, "title", f.Title, "Title of the entry page (default the archive folder name)")
}

// ApplyConfig fills in every setting whose flag was not given on the command line.
func (f *OutputFlags) ApplyConfig(cfg *configv1.ConverterConfig, fs *pflag.FlagSet) {
	if cfg == nil {
		return
	}
	if !fs.Changed("number") && cfg.OwnerNumber != "" {
		f.OwnerNumber = cfg.OwnerNumber
	}
	if !fs.Changed("output") && cfg.OutputDir != "" {
		f.OutputDir = cfg.OutputDir
	}
	if !fs.Changed("chunk-size") && cfg.ChunkSizeBytes > 0 {
		f.ChunkSize = cfg.ChunkSizeBytes
	}
	if !fs.Changed("timezone") && cfg.Timezone != "" {
		f.Timezone = cfg.Timezone
	}
	if !fs.Changed("title") && cfg.Title != "" {
		f.Title = cfg.Title
	}
}

func (f *OutputFlags) Validate() error {
	if f.OwnerNumber == "" {
		return errors.New("--number is required")
	}
	if len(identity.NormalizeNumber(f.OwnerNumber)) == 0 {
		return errors.Errorf("--number %q contains no digits", f.OwnerNumber)
	}
	if f.OutputDir == "" {
		return errors.New("--output is required")
	}
	if f.ChunkSize <= 0 {
		return errors.Errorf("--chunk-size must be positive, got %d", f.ChunkSize)
	}
	if _, err := f.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the time zone, defaulting to the local zone.
func (f *OutputFlags) Location() (*time.Location, error) {
	if f.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid --timezone %q", f.Timezone)
	}
	return loc, nil
}
