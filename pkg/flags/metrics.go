package flags

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/openshift/smsxml2html/pkg/converter"
)

type MetricsFlags struct {
	PushGateway string
}

func NewMetricsFlags() *MetricsFlags {
	return &MetricsFlags{
		PushGateway: os.Getenv(converter.PushGatewayEnv),
	}
}

func (f *MetricsFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.PushGateway, "prometheus-pushgateway", f.PushGateway,
		"URL of a Prometheus push gateway to send run metrics to (default $"+converter.PushGatewayEnv+")")
}
