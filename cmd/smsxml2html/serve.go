package main

import (
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/openshift/smsxml2html/pkg/layout"
	"github.com/openshift/smsxml2html/pkg/previewserver"
)

type ServeFlags struct {
	Dir         string
	ListenAddr  string
	MetricsAddr string
}

func NewServeFlags() *ServeFlags {
	return &ServeFlags{
		ListenAddr:  ":8080",
		MetricsAddr: ":2112",
	}
}

func (f *ServeFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Dir, "dir", f.Dir, "Archive folder to serve, the one holding "+layout.EntryPageName)
	fs.StringVar(&f.ListenAddr, "listen", f.ListenAddr, "The address to serve the archive on (default :8080)")
	fs.StringVar(&f.MetricsAddr, "listen-metrics", f.MetricsAddr, "The address to serve prometheus metrics on, empty to disable (default :2112)")
}

func (f *ServeFlags) Validate() error {
	if f.Dir == "" {
		return errors.New("--dir is required")
	}
	info, err := os.Stat(f.Dir)
	if err != nil {
		return errors.WithMessage(err, "cannot serve archive")
	}
	if !info.IsDir() {
		return errors.Errorf("%s is not a directory", f.Dir)
	}
	return nil
}

func NewServeCommand() *cobra.Command {
	f := NewServeFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a produced archive folder over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			// Serve our metrics endpoint for prometheus to scrape
			if f.MetricsAddr != "" {
				go func() {
					mux := http.NewServeMux()
					mux.Handle("/metrics", promhttp.Handler())
					metricsServer := &http.Server{Addr: f.MetricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
					if err := metricsServer.ListenAndServe(); err != nil {
						log.WithError(err).Error("metrics listener stopped")
					}
				}()
			}

			return previewserver.NewServer(f.Dir, f.ListenAddr).Serve(ctx)
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}
