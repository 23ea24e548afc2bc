package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/admitcheck/pkg/rules"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate rule sources",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Load a rule source and report the first problem",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadRuleSource(cmd, args)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rules are valid: %d programs, %d modules, %d compositions\n",
			len(table.Programs), len(table.Modules), len(table.Compositions))
		return nil
	},
}

var rulesInspectCmd = &cobra.Command{
	Use:   "inspect [source]",
	Short: "Print the loaded rule table as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadRuleSource(cmd, args)
		if err != nil {
			return err
		}
		if program, _ := cmd.Flags().GetString("program"); program != "" {
			required, err := table.ProgramRequirements(program)
			if err != nil {
				return err
			}
			return printJSON(cmd, required)
		}
		return printJSON(cmd, table)
	},
}

// loadRuleSource prefers the positional argument over --rules and the configuration.
func loadRuleSource(cmd *cobra.Command, args []string) (*rules.Table, error) {
	var source string
	if len(args) > 0 {
		source = args[0]
	} else {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		source = cfg.Rules
	}
	if source == "" {
		return nil, fmt.Errorf("no rule source given")
	}
	return rules.Load(source)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesValidateCmd, rulesInspectCmd)
	rulesInspectCmd.Flags().String("program", "", "Only print the credit requirements of this program")
}
