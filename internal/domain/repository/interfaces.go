package repository

import (
	"context"

	"StockPull/internal/domain/models"
)

// Transport fetches raw bytes from a remote URL.
type Transport interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CacheStore is a durable key-value byte store.
// Calls are synchronous and rely on the backing medium for latency bounds.
type CacheStore interface {
	Save(data []byte, key string) error
	Load(key string) ([]byte, error)
	Exists(key string) bool
}

// PortfolioRepository returns the user's holdings.
type PortfolioRepository interface {
	FetchPortfolio(ctx context.Context) ([]models.Holding, error)
}

// SnapshotPublisher ships published view snapshots to downstream consumers.
type SnapshotPublisher interface {
	Publish(ctx context.Context, ev *models.PortfolioEvent) error
	Close() error
}

// Metrics records pipeline observations.
type Metrics interface {
	RecordFetch(source string)
	RecordCacheFailure(op string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordPortfolio(holdings int, currentValue float64)
}
