package cmd

import (
	"fmt"

	"github.com/rmcole/binscan/internal/app"
	"github.com/rmcole/binscan/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full scanner: batch poll, streaming engine and HTTP server",
	Long: `Starts the cross-venue arbitrage scanner:
1. Resolves matched event pairs across both venues (static, dynamic, sports-game, fuzzy)
2. Polls both venues' order books on a fixed interval
3. Streams live order book updates over WebSocket for the matched pairs
4. Serves the current opportunity snapshot over HTTP

Use --no-stream to run the batch scanner and HTTP server only.`,
	RunE: runScanner,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("no-stream", false, "disable the WebSocket streaming engine")
}

func runScanner(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	noStream, _ := cmd.Flags().GetBool("no-stream")

	application, err := app.New(cfg, logger, &app.Options{StreamingDisabled: noStream})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	if err := application.Run(); err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
