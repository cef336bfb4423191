package configflags

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	configv1 "github.com/openshift/smsxml2html/pkg/apis/config/v1"
)

// ConfigFlags holds the location of the optional converter configuration file.
type ConfigFlags struct {
	Path string
}

func NewConfigFlags() *ConfigFlags {
	return &ConfigFlags{}
}

func (f *ConfigFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path,
		"config",
		f.Path,
		"YAML configuration file; flags given on the command line take precedence")
}

// GetConfig loads the configuration file, or returns an empty configuration when none was given.
func (f *ConfigFlags) GetConfig() (*configv1.ConverterConfig, error) {
	var cfg configv1.ConverterConfig

	if f.Path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.WithMessage(err, "could not load config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WithMessage(err, "couldn't unmarshal config")
	}

	return &cfg, nil
}
