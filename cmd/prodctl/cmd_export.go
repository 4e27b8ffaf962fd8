package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"proddash/internal/config"
	"proddash/internal/exporter"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the record as CSV or XLSX",
		Long: `Fetch the export, run the extractor and write the record in the same
layout as the dashboard downloads.

With --output the format follows the file extension unless --format is
given. Without it the file goes to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "" && format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			if format == "" {
				format = string(exporter.FormatCSV)
			}
			f, err := exporter.ParseFormat(format)
			if err != nil {
				return err
			}

			res, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			exp := exporter.NewExporter(config.AppName, logger)

			if output == "" {
				return exp.Write(cmd.OutOrStdout(), f, res.Record)
			}

			if ext := strings.TrimPrefix(filepath.Ext(output), "."); !strings.EqualFold(ext, string(f)) {
				return fmt.Errorf("output %q does not match format %s", output, f)
			}
			if err := exp.WriteFile(output, res.Record); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "wrote", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "csv or xlsx (default csv, or the --output extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
