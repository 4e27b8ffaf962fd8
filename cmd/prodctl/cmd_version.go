package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"proddash/internal/config"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s %s/%s)\n",
				config.ServiceName, config.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
