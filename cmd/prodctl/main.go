package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"proddash/internal/config"
	"proddash/internal/dataprocessing"
	"proddash/internal/infrastructure"
	"proddash/internal/source"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	source     string
	mode       string
	verbose    bool
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "prodctl",
		Short: "One-shot tools for the daily production export",
		Long: `prodctl reads the daily production export once, outside the dashboard
server, using the same configuration, fetcher and extractor.

Available subcommands:
  extract - Print the extracted record as JSON
  export  - Write the record as CSV or XLSX
  version - Print build information`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: "+config.EnvPrefix+"_CONFIG or ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&opts.source, "source", "s", "", "Export URL or file path (overrides source.url)")
	rootCmd.PersistentFlags().StringVar(&opts.mode, "mode", "", "Extraction mode: fallback or strict (overrides extract.mode)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", time.Minute, "Overall operation timeout")

	rootCmd.AddCommand(newExtractCmd(opts), newExportCmd(opts), newVersionCmd())
	return rootCmd
}

// load fetches and extracts one record according to opts.
func (o *options) load(cmd *cobra.Command) (*dataprocessing.Result, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}
	if o.source != "" {
		cfg.Source.URL = o.source
	}
	if o.mode != "" {
		cfg.Extract.Mode = o.mode
	}

	cfg.Logging.Level = "warn"
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	logger := infrastructure.NewLogger(cfg.Logging, cmd.ErrOrStderr())

	fetcher, err := source.New(cfg.Source, logger)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()

	data, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", fetcher.Location(), err)
	}

	res, err := dataprocessing.NewExtractor(dataprocessing.Mode(cfg.Extract.Mode), logger).Extract(string(data))
	if err != nil {
		return nil, nil, err
	}
	for _, f := range res.Fallbacks {
		logger.Warn("field fell back to default", slog.String("field", f))
	}
	return res, logger, nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
