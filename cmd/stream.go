package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rmcole/binscan/internal/app"
	"github.com/rmcole/binscan/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Run one batch scan to seed subscriptions, then stream order book updates",
	Long: `Runs a single batch scan to resolve matched pairs, subscribes the
streaming engine to them, then follows live order book updates over
WebSocket until interrupted, logging each aggregated opportunity event.`,
	RunE: runStream,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
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

	application, err := app.New(cfg, logger, &app.Options{})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := application.Orchestrator().Scan(ctx); err != nil {
		return fmt.Errorf("seed scan: %w", err)
	}

	engine := application.StreamEngine()
	engine.Subscribe(application.Orchestrator().MarketPairs())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() { errChan <- engine.Run(ctx) }()

	go func() {
		for event := range engine.Events() {
			logger.Info("stream-event",
				zap.String("type", string(event.Type)),
				zap.String("pair-id", string(event.PairID)),
				zap.Bool("has-opportunity", event.Opportunity != nil))
		}
	}()

	select {
	case <-sigChan:
		logger.Info("stream-shutdown-signal-received")
		cancel()
	case err := <-errChan:
		if err != nil && err != context.Canceled {
			return fmt.Errorf("stream engine: %w", err)
		}
	}

	return engine.Close()
}
