package main

import (
	"fmt"

	"github.com/aretw0/admitcheck/internal/cli"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Work with question catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Check a catalog (YAML file or directory of Markdown questions)",
	Long: `Checks key uniqueness, question kinds, computed sources, derive tables and
that every precondition only references earlier questions or derived fields.
Without an argument the configured catalog (or the embedded default) is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var source string
		if len(args) > 0 {
			source = args[0]
		} else {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			source = cfg.Catalog
		}

		c, err := cli.LoadCatalog(cmd.Context(), source)
		if err != nil {
			return fmt.Errorf("catalog is invalid: %w", err)
		}

		out := cmd.OutOrStdout()
		if verbose, _ := cmd.Flags().GetBool("list"); verbose {
			for i, q := range c.Questions() {
				fmt.Fprintf(out, "%2d. %-28s %-9s %s\n", i+1, q.Key, q.Kind, q.When)
			}
		}
		fmt.Fprintf(out, "Catalog is valid: %d questions\n", c.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogValidateCmd.Flags().Bool("list", false, "List the questions in order")
}
