package main

import (
	"fmt"

	"github.com/dekarrin/civrules/internal/rscompat"
	"github.com/dekarrin/civrules/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Give the version of civrs and the ruleset formats it reads",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "civrs %s\n", version.Current)
			fmt.Fprintf(out, "ruleset format %d (%s); formats %d and up with --compat (%s)\n",
				rscompat.FormatCurrent, rscompat.CapabilityRequired, rscompat.FormatMinCompat, rscompat.CapabilityCompat)
		},
	}
}
