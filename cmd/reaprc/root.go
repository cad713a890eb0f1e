package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/reaprc/cmd/reaprc/opts"
	"github.com/walteh/reaprc/pkg/report"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	manifestPath string
	lockPath     string
	severity     string
	debug        bool
)

// newRootOpts creates a new RootOpts from the parsed flags
func newRootOpts() (*opts.RootOpts, error) {
	sev, err := parseSeverity(severity)
	if err != nil {
		return nil, err
	}

	return &opts.RootOpts{
		ManifestPath: manifestPath,
		LockPath:     lockPath,
		Severity:     sev,
	}, nil
}

// parseSeverity resolves the --severity flag value
func parseSeverity(raw string) (report.Severity, error) {
	switch raw {
	case "warning":
		return report.SeverityWarning, nil
	case "error":
		return report.SeverityError, nil
	case "critical":
		return report.SeverityCritical, nil
	default:
		return 0, errors.Errorf("unknown severity %q (want warning, error or critical)", raw)
	}
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", ".reaprc.csv", "rule manifest path (.csv, .yaml or .hcl)")
	cmd.PersistentFlags().StringVar(&lockPath, "lock-file", "", "lock file guarding against overlapping runs (empty disables)")
	cmd.PersistentFlags().StringVar(&severity, "severity", "error", "severity of the failure notification")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
