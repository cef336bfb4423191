package v1

// ConverterConfig is the on-disk configuration for smsxml2html. Every field is optional; command line
// flags that are set explicitly take precedence.
type ConverterConfig struct {
	// OwnerNumber is the phone number of the device the backup was taken from.
	OwnerNumber string `yaml:"ownerNumber,omitempty"`

	// OutputDir is the directory the archive folder is created in.
	OutputDir string `yaml:"outputDir,omitempty"`

	// Timezone is an IANA zone name used for month grouping and displayed dates. Defaults to the
	// local zone.
	Timezone string `yaml:"timezone,omitempty"`

	// ChunkSizeBytes is the rendered size above which a conversation is split into pages.
	ChunkSizeBytes int `yaml:"chunkSizeBytes,omitempty"`

	// Title overrides the entry page title, which otherwise is the archive folder name.
	Title string `yaml:"title,omitempty"`

	Publish PublishConfig `yaml:"publish,omitempty"`
}

type PublishConfig struct {
	// Bucket is the GCS bucket a finished archive is uploaded to, if set.
	Bucket string `yaml:"bucket,omitempty"`

	// Prefix is prepended to every object name.
	Prefix string `yaml:"prefix,omitempty"`
}
