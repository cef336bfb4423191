package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openshift/smsxml2html/pkg/version"
)

var logLevel = "info"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smsxml2html",
	Short: "Convert SMS Backup & Restore XML exports into a browsable HTML archive",
	Long: `smsxml2html reads the XML files written by SMS Backup & Restore and
produces a self-contained folder of HTML and script files that shows
every conversation the way a phone's messaging app does.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			log.WithError(err).Fatal("cannot parse log-level")
		}
		log.SetLevel(level)
		log.Debugf("smsxml2html built from %s", version.Get().GitCommit)
	},
}

func newRootCommand() *cobra.Command {
	rootCmd.AddCommand(
		NewConvertCommand(),
		NewServeCommand(),
		NewVersionCommand(),
	)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (trace,debug,info,warn,error) (default info)")
	return rootCmd
}

func main() {
	// Add some millisecond precision to log timestamps, useful for debugging performance.
	formatter := new(log.TextFormatter)
	formatter.TimestampFormat = "2006-01-02T15:04:05.999Z07:00"
	formatter.FullTimestamp = true
	log.SetFormatter(formatter)

	err := newRootCommand().Execute()
	if err != nil {
		log.WithError(err).Fatal("could not execute root command")
	}
}
