package di

import (
	"fmt"
	"time"

	"StockPull/internal/domain/repository"
	"StockPull/internal/handler/api"
	mid "StockPull/internal/middleware"
	internalrepo "StockPull/internal/repository"
	"StockPull/internal/service/ratelimit"
	"StockPull/internal/service/transport"
	"StockPull/internal/usecase"
	"StockPull/pkg/cache"
	"StockPull/pkg/config"
	xhttp "StockPull/pkg/http"
	pkgkafka "StockPull/pkg/kafka"
	applogger "StockPull/pkg/logger"
	"StockPull/pkg/metrics"
	"StockPull/pkg/queue"
	"StockPull/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry served at the metrics path.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideTransport creates the HTTP transport for the portfolio endpoint.
func ProvideTransport(cfg *config.Config) repository.Transport {
	return transport.New(xhttp.NewClient(xhttp.WithTimeout(cfg.Portfolio.Timeout)))
}

// ProvideCacheStore creates the configured cache backend.
func ProvideCacheStore(cfg *config.Config, l *applogger.Logger) (repository.CacheStore, func(), error) {
	store, err := cache.New(cfg.Cache.Backend,
		[]cache.FileOption{cache.WithDir(cfg.Cache.Dir)},
		[]cache.RedisOption{
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPool(cfg.Cache.Redis.PoolSize, 1, 30*time.Second),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("cache store: %w", err)
	}

	cleanup := func() {}
	switch s := store.(type) {
	case *cache.RedisStore:
		cleanup = func() {
			if err := s.Close(); err != nil {
				l.Warn("redis close error", applogger.Error(err))
			}
		}
		l.Info("cache backend ready", applogger.String("backend", "redis"))
	case *cache.FileStore:
		l.Info("cache backend ready", applogger.String("backend", "file"), applogger.String("dir", s.Dir()))
	default:
		l.Info("cache backend ready", applogger.String("backend", cfg.Cache.Backend))
	}
	return store, cleanup, nil
}

// ProvideDecoder creates the portfolio payload decoder.
func ProvideDecoder() internalrepo.Decoder {
	return internalrepo.NewPortfolioDecoder()
}

// ProvidePortfolioRepository creates the cache-first portfolio repository.
func ProvidePortfolioRepository(
	tr repository.Transport,
	store repository.CacheStore,
	dec internalrepo.Decoder,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) repository.PortfolioRepository {
	return internalrepo.NewPortfolioRepository(tr, store, dec, m, l, cfg.Portfolio.URL, cfg.Portfolio.CacheKey)
}

// ProvideQueue creates the serial queue that owns view state.
func ProvideQueue(cfg *config.Config, l *applogger.Logger) *queue.Serial {
	return queue.NewSerial(l, cfg.Queue.Size)
}

// ProvideViewModel creates the portfolio view-model.
func ProvideViewModel(repo repository.PortfolioRepository, q *queue.Serial, m repository.Metrics, l *applogger.Logger) *usecase.PortfolioViewModel {
	return usecase.NewPortfolioViewModel(repo, q, m, l)
}

// ProvideSnapshotPublisher creates the Kafka publisher, or a no-op one when Kafka is disabled.
func ProvideSnapshotPublisher(cfg *config.Config, reg *prometheus.Registry) (repository.SnapshotPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic, cfg.Portfolio.CacheKey), nil
}

// ProvideSnapshotRelay creates the relay between view-model publishes and
// the publisher. It is nil when Kafka is disabled.
func ProvideSnapshotRelay(cfg *config.Config, pub repository.SnapshotPublisher, m repository.Metrics, l *applogger.Logger) *mid.SnapshotRelay {
	if !cfg.Kafka.Enabled {
		return nil
	}
	return mid.NewSnapshotRelay(pub, m, l, mid.WithBufferSize(256), mid.WithMaxAttempts(3))
}

// ProvideLoadLimiter creates the token bucket guarding the load endpoint.
func ProvideLoadLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.API.LoadLimit.Capacity, cfg.API.LoadLimit.RefillPerSec)
}

// ProvidePortfolioStream creates the WebSocket stream.
func ProvidePortfolioStream(l *applogger.Logger, vm *usecase.PortfolioViewModel) *api.PortfolioStream {
	return api.NewPortfolioStream(l, vm)
}

// ProvidePortfolioHandler creates the HTTP handler.
func ProvidePortfolioHandler(
	l *applogger.Logger,
	vm *usecase.PortfolioViewModel,
	limiter *ratelimit.Limiter,
	stream *api.PortfolioStream,
	cfg *config.Config,
) *api.PortfolioEchoHandler {
	return api.NewPortfolioEchoHandler(l, vm, limiter, stream, cfg.Portfolio.Currency)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h *api.PortfolioEchoHandler, l *applogger.Logger, reg *prometheus.Registry) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, l,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetrics(metricsPath, reg),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	vm *usecase.PortfolioViewModel,
	q *queue.Serial,
	relay *mid.SnapshotRelay,
	pub repository.SnapshotPublisher,
	srv *xhttp.Server,
) *server.App {
	return server.New(cfg, l, vm, q, relay, pub, srv)
}
