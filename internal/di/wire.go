//go:build wireinject
// +build wireinject

package di

import (
	"StockPull/pkg/config"
	"StockPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,

		// Data access
		ProvideTransport,
		ProvideCacheStore,
		ProvideDecoder,
		ProvidePortfolioRepository,

		// View state
		ProvideQueue,
		ProvideViewModel,

		// Snapshot fan-out
		ProvideSnapshotPublisher,
		ProvideSnapshotRelay,

		// HTTP
		ProvideLoadLimiter,
		ProvidePortfolioStream,
		ProvidePortfolioHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
