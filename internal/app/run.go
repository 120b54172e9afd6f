package app

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run starts the batch scan orchestrator, the streaming engine and the HTTP
// server, then blocks until a shutdown signal or context cancellation.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("http-port", a.cfg.HTTPPort),
		zap.String("log-level", a.cfg.LogLevel))

	if err := a.startComponents(); err != nil {
		return err
	}

	a.healthChecker.SetReady(true)
	a.logger.Info("application-ready", zap.String("http-addr", ":"+a.cfg.HTTPPort))

	return a.waitForShutdown()
}

func (a *App) startComponents() error {
	a.wg.Add(1)
	go a.runHTTPServer()

	a.wg.Add(1)
	go a.runOrchestrator()

	if a.streamEngine != nil {
		a.wg.Add(1)
		go a.runStreamEngine()

		a.wg.Add(1)
		go a.runSubscriptionRefresher()
	}

	return nil
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) runOrchestrator() {
	defer a.wg.Done()
	if err := a.orchestrator.Run(a.ctx); err != nil && !errors.Is(err, a.ctx.Err()) {
		a.logger.Error("orchestrator-error", zap.Error(err))
	}
}

func (a *App) runStreamEngine() {
	defer a.wg.Done()
	if err := a.streamEngine.Run(a.ctx); err != nil && !errors.Is(err, a.ctx.Err()) {
		a.logger.Error("stream-engine-error", zap.Error(err))
	}
}

// runSubscriptionRefresher periodically hands the streaming engine whatever
// MarketPairs the batch orchestrator most recently resolved (§4.9: "subscribed
// markets derived from a MarketPairRegistry"), so newly matched pairs start
// streaming without a process restart.
func (a *App) runSubscriptionRefresher() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.cfg.ScanPollInterval)
	defer ticker.Stop()

	a.streamEngine.Subscribe(a.orchestrator.MarketPairs())

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.streamEngine.Subscribe(a.orchestrator.MarketPairs())
		}
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
