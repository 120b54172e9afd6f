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
var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Run one batch scan and print the resolved market pairs as JSON",
	Long: `Runs one full batch scan (candidate resolution from the static catalog,
dynamic templates, sports-game matching and the fuzzy-match cache, then event
fetches, market matching and the liquidity pass, which fetches order books for
the top opportunities) and prints the resulting MarketPairs, each carrying its
MatchedPair, as JSON.`,
	RunE: runPairs,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(pairsCmd)
}

func runPairs(cmd *cobra.Command, args []string) error {
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

	if err := application.Orchestrator().Scan(context.Background()); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(application.Orchestrator().MarketPairs())
}
