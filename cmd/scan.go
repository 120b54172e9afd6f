package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rmcole/binscan/internal/app"
	"github.com/rmcole/binscan/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single batch scan and print the resulting snapshot",
	Long: `Resolves matched event pairs, fetches both venues' order books once,
computes arbitrage opportunities and prints the resulting OpportunitiesSnapshot
as JSON. Does not start the HTTP server or the streaming engine.`,
	RunE: runOneShotScan,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scanCmd)
}

func runOneShotScan(cmd *cobra.Command, args []string) error {
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

	application, err := app.New(cfg, logger, &app.Options{StreamingDisabled: true})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	ctx := context.Background()
	if err := application.Orchestrator().Scan(ctx); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(application.Orchestrator().Snapshot())
}
