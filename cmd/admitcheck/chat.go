package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/admitcheck"
	"github.com/aretw0/admitcheck/internal/cli"
	"github.com/aretw0/admitcheck/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an interactive eligibility check in the terminal",
	Long: `Runs one applicant session on stdin/stdout. Options can be answered by
their number. Type "exit" to leave; the session can be resumed with --session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		prefill, _ := cmd.Flags().GetStringToString("prefill")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		app, err := cli.NewApp(sigCtx, cfg, logger)
		if err != nil {
			return fmt.Errorf("error initializing admitcheck: %w", err)
		}
		defer app.Close()

		interactive := !jsonMode && cli.IsTerminal(os.Stdout)
		renderer := tui.PlainRenderer
		if interactive && !plain {
			renderer = tui.NewRenderer()
		}
		if interactive {
			tui.PrintBanner(os.Stdout, strings.TrimSpace(admitcheck.Version))
		}

		err = cli.RunChat(sigCtx, app.Assistant, cli.ChatOptions{
			SessionID: sessionID,
			Prefill:   prefill,
			JSON:      jsonMode,
			Input:     os.Stdin,
			Output:    os.Stdout,
			Renderer:  renderer,
		})
		if sig := sigCtx.Signal(); sig != nil {
			logger.Info("chat interrupted", "signal", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("session", "", "Session ID to create or resume (default: random)")
	chatCmd.Flags().Bool("json", false, "Exchange JSON-Lines instead of rendered text")
	chatCmd.Flags().Bool("plain", false, "Disable Markdown rendering")
	chatCmd.Flags().StringToString("prefill", nil, "Known answers, e.g. --prefill bachelor_studiengang=Wirtschaftsingenieurwesen")
}
