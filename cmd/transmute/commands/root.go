package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"transmuter/internal/metrics"
)

// globalOptions are shared by every command.
type globalOptions struct {
	logLevel    string
	logFormat   string
	metricsFile string

	logger  zerolog.Logger
	metrics *metrics.Recorder
}

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	return NewRootCommand(version).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &globalOptions{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "transmute",
		Short: "Declarative record mapping and aggregation",
		Long: `transmute turns source records into target records as declared by a YAML
specification file.

A mapping specification produces one target record per source record. An
aggregation specification groups source records by a composite key, collects
per-record values into lists and reduces each group into one target record.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd.ErrOrStderr())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFormat, "log-format", "console", "log format (console, json)")
	pf.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")

	rootCmd.AddCommand(newMapCommand(opts))
	rootCmd.AddCommand(newAggregateCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))

	return rootCmd
}

// setup configures logging and metrics.
func (o *globalOptions) setup(stderr io.Writer) error {
	level, err := zerolog.ParseLevel(strings.ToLower(o.logLevel))
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}

	var w io.Writer

	switch o.logFormat {
	case "console":
		w = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly}
	case "json":
		w = stderr
	default:
		return fmt.Errorf("invalid --log-format %q: want console or json", o.logFormat)
	}

	o.logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	log.Logger = o.logger
	o.metrics = metrics.New()

	return nil
}

// finish records the outcome of a run and writes the metrics file.
func (o *globalOptions) finish(command string, in, out int, start time.Time, runErr error) error {
	elapsed := time.Since(start)

	if o.metrics != nil {
		o.metrics.ObserveRun(command, in, out, elapsed, runErr)

		if o.metricsFile != "" {
			if err := o.metrics.WriteFile(o.metricsFile); err != nil {
				o.logger.Warn().Err(err).Str("path", o.metricsFile).Msg("failed to write metrics")
			}
		}
	}

	if runErr != nil {
		return runErr
	}

	o.logger.Info().
		Str("command", command).
		Int("in", in).
		Int("out", out).
		Dur("elapsed", elapsed).
		Msg("done")

	return nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}

	return fallback
}
