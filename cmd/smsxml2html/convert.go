package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/openshift/smsxml2html/pkg/converter"
	"github.com/openshift/smsxml2html/pkg/flags"
	"github.com/openshift/smsxml2html/pkg/flags/configflags"
	"github.com/openshift/smsxml2html/pkg/publish/gcs"
)

type ConvertFlags struct {
	ConfigFlags      *configflags.ConfigFlags
	OutputFlags      *flags.OutputFlags
	GoogleCloudFlags *flags.GoogleCloudFlags
	MetricsFlags     *flags.MetricsFlags
}

func NewConvertFlags() *ConvertFlags {
	return &ConvertFlags{
		ConfigFlags:      configflags.NewConfigFlags(),
		OutputFlags:      flags.NewOutputFlags(),
		GoogleCloudFlags: flags.NewGoogleCloudFlags(),
		MetricsFlags:     flags.NewMetricsFlags(),
	}
}

func (f *ConvertFlags) BindFlags(fs *pflag.FlagSet) {
	f.ConfigFlags.BindFlags(fs)
	f.OutputFlags.BindFlags(fs)
	f.GoogleCloudFlags.BindFlags(fs)
	f.MetricsFlags.BindFlags(fs)
}

// Complete merges the config file into every flag not given on the command line.
func (f *ConvertFlags) Complete(fs *pflag.FlagSet) error {
	cfg, err := f.ConfigFlags.GetConfig()
	if err != nil {
		return err
	}
	f.OutputFlags.ApplyConfig(cfg, fs)
	f.GoogleCloudFlags.ApplyConfig(cfg.Publish, fs)
	return nil
}

func (f *ConvertFlags) Validate() error {
	return f.OutputFlags.Validate()
}

func NewConvertCommand() *cobra.Command {
	f := NewConvertFlags()

	cmd := &cobra.Command{
		Use:   "convert -n NUMBER -o DIR INPUT...",
		Short: "Convert one or more backup files into an HTML archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Complete(cmd.Flags()); err != nil {
				return err
			}
			if err := f.Validate(); err != nil {
				return errors.WithMessage(err, "invalid flags")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runConvert(ctx, f, args, cmd.OutOrStdout())
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}

func runConvert(ctx context.Context, f *ConvertFlags, inputs []string, out io.Writer) error {
	loc, err := f.OutputFlags.Location()
	if err != nil {
		return err
	}

	result, err := converter.Run(ctx, converter.Options{
		Inputs:      inputs,
		OutputDir:   f.OutputFlags.OutputDir,
		OwnerNumber: f.OutputFlags.OwnerNumber,
		ChunkSize:   f.OutputFlags.ChunkSize,
		Location:    loc,
		Title:       f.OutputFlags.Title,
		PushGateway: f.MetricsFlags.PushGateway,
	})
	if err != nil {
		return errors.WithMessage(err, "conversion failed")
	}

	if f.GoogleCloudFlags.Enabled() {
		if err := publish(ctx, f.GoogleCloudFlags, result.Dir); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Open %s in your web browser to view all your conversations.\n", result.EntryPath)
	fmt.Fprintf(out, "Success! Created %s in %s\n", result.EntryPath, result.OutputDir)
	return nil
}

func publish(ctx context.Context, f *flags.GoogleCloudFlags, dir string) error {
	client, err := gcs.NewClient(ctx, f.ServiceAccountCredentialFile, f.OAuthClientCredentialFile)
	if err != nil {
		return errors.WithMessage(err, "could not create GCS client")
	}
	defer client.Close()

	count, err := gcs.NewUploader(client, f.StorageBucket).UploadTree(ctx, dir, f.StoragePrefix)
	if err != nil {
		return errors.WithMessagef(err, "could not upload archive to gs://%s", f.StorageBucket)
	}
	log.WithFields(log.Fields{"bucket": f.StorageBucket, "prefix": f.StoragePrefix}).Infof("uploaded %d files", count)
	return nil
}
