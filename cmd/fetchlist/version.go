package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd prints the build version
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fetchlist %s\n", version)
		},
	}
}
