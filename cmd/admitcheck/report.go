package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/admitcheck/internal/cli"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize recent sessions from the interaction journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		days, _ := cmd.Flags().GetInt("days")
		asJSON, _ := cmd.Flags().GetBool("json")

		app, err := cli.NewApp(context.Background(), cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		report, err := app.Assistant.Report(cmd.Context(), days)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Fprintf(out, "Zeitraum:      %s bis %s (%d Tage)\n", report.From.Format("2006-01-02"), report.To.Format("2006-01-02"), report.Days)
		fmt.Fprintf(out, "Sitzungen:     %d\n", report.Sessions)
		fmt.Fprintf(out, "Abgeschlossen: %d\n", report.Completed)
		fmt.Fprintf(out, "Abgebrochen:   %d (%.0f%%)\n", report.Incomplete, report.DropRate*100)
		if len(report.TopPrograms) > 0 {
			fmt.Fprintln(out, "Top-Studiengänge:")
			for _, p := range report.TopPrograms {
				fmt.Fprintf(out, "  %-30s %d\n", p.Program, p.Count)
			}
		}
		printCounts(out, "Kategorien:", report.ByCategory)
		printCounts(out, "Entscheidungen:", report.ByVerdict)
		return nil
	},
}

func printCounts(out io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(out, title)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-30s %d\n", k, counts[k])
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Int("days", 7, "Lookback window in days")
	reportCmd.Flags().Bool("json", false, "Print the report as JSON")
}
