package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dormpower/powermon/pkg/config"
	"github.com/dormpower/powermon/pkg/meter"
	"github.com/dormpower/powermon/pkg/report"
)

var (
	logLevel   = "info"
	cliURL     = ""
	configPath = ""
	format     = report.FormatMarkdown
	outputPath = ""
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if pkgerrors.Is(err, config.ErrBadConfig) {
		fmt.Fprintln(os.Stderr, color.RedString("The config file must be a mapping at its top level."))
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "powermon",
		Short: "powermon reports the remaining electricity balance of a utility meter",
		Long: `powermon fetches the remaining-electricity page of a utility meter and
renders the readings as a markdown or JSON report.

The page URL is resolved from, in order: --url, POWER_MONITOR_URL, the url
keys of the config file, or a URL composed from the configured meter id
(POWER_MONITOR_MID / mid) and base URL (POWER_MONITOR_BASE_URL / base_url).`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCheck()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")

	flags := cmd.Flags()
	flags.StringVar(&cliURL, "url", "", "override the meter URL instead of using POWER_MONITOR_URL/config")
	flags.StringVar(&configPath, "config", "", "path to config.yaml (default: config.yaml or POWER_MONITOR_CONFIG)")
	flags.StringVar(&format, "format", report.FormatMarkdown, "output format (markdown or json)")
	flags.StringVar(&outputPath, "output", "", "write the generated report to this file instead of stdout")

	cmd.AddCommand(
		NewVersionCommand(),
	)

	return cmd
}

// runCheck is the whole single-shot pipeline: config, URL, fetch, extract,
// render, write. Collection failures are downgraded into a failure report
// here and only here; the report is always written before the run is
// declared failed.
func runCheck() error {
	if format != report.FormatMarkdown && format != report.FormatJSON {
		return fmt.Errorf("invalid format %q (expected markdown or json)", format)
	}

	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}

	url := meter.ResolveURL(cliURL, conf)

	rep, err := report.Collect(url)
	if err != nil {
		logrus.WithError(err).Debug("collection failed, emitting failure report")
		rep = report.Failure(url, err)
	}

	var out string
	if format == report.FormatJSON {
		out, err = report.RenderJSON(rep)
		if err != nil {
			return err
		}
	} else {
		out = report.RenderMarkdown(rep)
	}

	if err := report.WriteOutput(out, outputPath); err != nil {
		return err
	}

	if !rep.Success {
		if rep.Error != nil {
			return pkgerrors.New(*rep.Error)
		}
		return pkgerrors.New("power monitor failed")
	}

	return nil
}
