package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"proddash/pkg/contracts/domain"
)

type extractOutput struct {
	Record    *domain.ProductionRecord `json:"record"`
	Totals    domain.ProductionTotals  `json:"totals"`
	Fallbacks []string                 `json:"fallbacks"`
	Lines     int                      `json:"lines"`
}

func newExtractCmd(opts *options) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Print the extracted record as JSON",
		Long: `Fetch the export, run the extractor and print the record, its totals
and the list of fields that fell back to their defaults.

In strict mode any unreadable field is an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, _, err := opts.load(cmd)
			if err != nil {
				return err
			}

			out := extractOutput{
				Record:    res.Record,
				Totals:    res.Record.Totals(),
				Fallbacks: res.Fallbacks,
				Lines:     res.Lines,
			}
			if out.Fallbacks == nil {
				out.Fallbacks = []string{}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(out)
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on one line")
	return cmd
}
