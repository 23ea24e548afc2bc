package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/admitcheck"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of admitcheck",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "admitcheck version %s\n", strings.TrimSpace(admitcheck.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
