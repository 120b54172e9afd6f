package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shutdown gracefully stops the HTTP server, the streaming engine and the
// backing caches, in dependency order, then waits for every goroutine Run
// started to return.
func (a *App) Shutdown() error {
	a.logger.Info("application-shutting-down")

	a.healthChecker.SetReady(false)
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http-server-shutdown-error", zap.Error(err))
	}

	if a.streamEngine != nil {
		if err := a.streamEngine.Close(); err != nil {
			a.logger.Error("stream-engine-close-error", zap.Error(err))
		}
	}

	if err := a.pairCache.Close(); err != nil {
		a.logger.Error("pair-cache-close-error", zap.Error(err))
	}
	a.eventCache.Close()

	a.wg.Wait()

	a.logger.Info("application-shutdown-complete")
	return nil
}
