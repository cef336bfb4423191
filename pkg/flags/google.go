package flags

import (
	"os"

	"github.com/spf13/pflag"

	configv1 "github.com/openshift/smsxml2html/pkg/apis/config/v1"
)

// GoogleCloudFlags contain configuration for publishing an archive to Google Cloud Storage.
type GoogleCloudFlags struct {
	ServiceAccountCredentialFile string
	OAuthClientCredentialFile    string
	StorageBucket                string
	StoragePrefix                string
}

func NewGoogleCloudFlags() *GoogleCloudFlags {
	return &GoogleCloudFlags{
		ServiceAccountCredentialFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	}
}

func (f *GoogleCloudFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ServiceAccountCredentialFile,
		"google-service-account-credential-file",
		f.ServiceAccountCredentialFile,
		"location of a credential file described by https://cloud.google.com/docs/authentication/production")

	fs.StringVar(&f.OAuthClientCredentialFile,
		"google-oauth-credential-file",
		f.OAuthClientCredentialFile,
		"location of an installed-app OAuth client credential file, used when no service account is given")

	fs.StringVar(&f.StorageBucket, "gcs-bucket", f.StorageBucket, "GCS bucket to upload the finished archive to (optional)")
	fs.StringVar(&f.StoragePrefix, "gcs-prefix", f.StoragePrefix, "Prefix for uploaded object names")
}

// ApplyConfig fills in publish settings from the config file unless their flags were set.
func (f *GoogleCloudFlags) ApplyConfig(cfg configv1.PublishConfig, fs *pflag.FlagSet) {
	if !fs.Changed("gcs-bucket") && cfg.Bucket != "" {
		f.StorageBucket = cfg.Bucket
	}
	if !fs.Changed("gcs-prefix") && cfg.Prefix != "" {
		f.StoragePrefix = cfg.Prefix
	}
}

// Enabled reports whether an upload was requested.
func (f *GoogleCloudFlags) Enabled() bool {
	return f.StorageBucket != ""
}
