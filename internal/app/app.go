// Package app wires together the batch scan orchestrator, the streaming
// engine and the HTTP snapshot server into one runnable process, following
// the teacher's New/Run/Shutdown composition shape.
package app

import (
	"context"
	"sync"

	"github.com/rmcole/binscan/internal/matchpairs"
	"github.com/rmcole/binscan/internal/scan"
	"github.com/rmcole/binscan/internal/stream"
	"github.com/rmcole/binscan/pkg/cache"
	"github.com/rmcole/binscan/pkg/config"
	"github.com/rmcole/binscan/pkg/healthprobe"
	"github.com/rmcole/binscan/pkg/httpserver"
	"go.uber.org/zap"
)

// App is the main application orchestrator: it owns the batch scan
// orchestrator, the streaming engine, the HTTP snapshot server and the
// fuzzy-match persistent cache, and coordinates their startup/shutdown.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	orchestrator  *scan.Orchestrator
	streamEngine  *stream.Engine
	pairCache     matchpairs.PairCache
	eventCache    cache.Cache

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options holds application options.
type Options struct {
	// StreamingDisabled skips the real-time streaming engine, running the
	// batch scan loop and HTTP server only.
	StreamingDisabled bool
}

// Orchestrator exposes the batch scan orchestrator for one-shot CLI
// subcommands that scan without starting the HTTP server.
func (a *App) Orchestrator() *scan.Orchestrator {
	return a.orchestrator
}

// StreamEngine exposes the streaming engine, or nil when the app was built
// with Options.StreamingDisabled.
func (a *App) StreamEngine() *stream.Engine {
	return a.streamEngine
}
