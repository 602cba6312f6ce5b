package repository

import (
	"context"
	"errors"
	"time"

	"StockPull/internal/domain/models"
	drepo "StockPull/internal/domain/repository"
	"StockPull/pkg/cache"
	"StockPull/pkg/logger"
)

const (
	DefaultCacheKey = "portfolio_cache.json"

	SourceCache   = "cache"
	SourceNetwork = "network"
)

// PortfolioRepository serves holdings cache-first.
//
// A cache hit is returned as is, whatever its age; there is no expiry.
// Cache read and write failures never reach the caller. Only the network
// fetch and the decode of freshly fetched bytes can fail FetchPortfolio.
type PortfolioRepository struct {
	transport drepo.Transport
	cache     drepo.CacheStore
	decoder   Decoder
	metrics   drepo.Metrics
	logger    *logger.Logger
	url       string
	cacheKey  string
}

// NewPortfolioRepository creates the repository. An empty cacheKey selects DefaultCacheKey.
func NewPortfolioRepository(
	transport drepo.Transport,
	store drepo.CacheStore,
	decoder Decoder,
	metrics drepo.Metrics,
	l *logger.Logger,
	url, cacheKey string,
) *PortfolioRepository {
	if cacheKey == "" {
		cacheKey = DefaultCacheKey
	}
	return &PortfolioRepository{
		transport: transport,
		cache:     store,
		decoder:   decoder,
		metrics:   metrics,
		logger:    l,
		url:       url,
		cacheKey:  cacheKey,
	}
}

// FetchPortfolio returns holdings from the cache when a readable entry
// exists, otherwise from the network.
func (r *PortfolioRepository) FetchPortfolio(ctx context.Context) ([]models.Holding, error) {
	start := time.Now()
	defer func() {
		r.metrics.RecordLatency("fetch_portfolio", time.Since(start).Seconds())
	}()

	if holdings, ok := r.fromCache(); ok {
		r.metrics.RecordFetch(SourceCache)
		return holdings, nil
	}

	data, err := r.transport.Fetch(ctx, r.url)
	if err != nil {
		appErr := models.MapError(err)
		r.metrics.RecordError(appErr.Kind.String())
		r.logger.Error("portfolio fetch failed",
			logger.String("url", r.url),
			logger.String("kind", appErr.Kind.String()),
			logger.Error(err),
		)
		return nil, appErr
	}
	r.metrics.RecordFetch(SourceNetwork)

	if err := r.cache.Save(data, r.cacheKey); err != nil {
		// not propagated; the next call refetches
		r.metrics.RecordCacheFailure("save")
		r.logger.Warn("portfolio cache write failed",
			logger.String("key", r.cacheKey),
			logger.Error(models.CacheError(err)),
		)
	}

	holdings, err := r.decoder.Decode(data)
	if err != nil {
		appErr := models.MapError(err)
		r.metrics.RecordError(appErr.Kind.String())
		r.logger.Error("portfolio decode failed",
			logger.Int("bytes", len(data)),
			logger.Error(err),
		)
		return nil, appErr
	}

	return holdings, nil
}

// fromCache reports ok only for an entry that loads and decodes. Failures
// are logged and reported as a miss.
func (r *PortfolioRepository) fromCache() ([]models.Holding, bool) {
	if !r.cache.Exists(r.cacheKey) {
		return nil, false
	}

	data, err := r.cache.Load(r.cacheKey)
	if err != nil {
		op := "load"
		if errors.Is(err, cache.ErrCacheMiss) {
			// removed between Exists and Load
			op = "miss"
		}
		r.metrics.RecordCacheFailure(op)
		r.logger.Warn("portfolio cache read failed, falling back to network",
			logger.String("key", r.cacheKey),
			logger.Error(models.CacheError(err)),
		)
		return nil, false
	}

	holdings, err := r.decoder.Decode(data)
	if err != nil {
		r.metrics.RecordCacheFailure("decode")
		r.logger.Warn("portfolio cache entry unreadable, falling back to network",
			logger.String("key", r.cacheKey),
			logger.Error(err),
		)
		return nil, false
	}

	r.logger.Debug("portfolio served from cache",
		logger.String("key", r.cacheKey),
		logger.Int("holdings", len(holdings)),
	)
	return holdings, true
}
