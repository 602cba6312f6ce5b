package middleware

import (
	"context"
	"sync"
	"time"

	"StockPull/internal/domain/models"
	domrepo "StockPull/internal/domain/repository"
	"StockPull/pkg/logger"
)

// SnapshotRelay sits between the view-model's observers and a downstream
// publisher. Enqueue never blocks, so it is safe to call from an observer;
// events are shipped in order from a background goroutine with backoff on
// publish failures.
type SnapshotRelay struct {
	pub         domrepo.SnapshotPublisher
	metrics     domrepo.Metrics
	logger      *logger.Logger
	bufSize     int
	maxAttempts int
	maxBackoff  time.Duration
	bufCh       chan *models.PortfolioEvent
	stopCh      chan struct{}
	doneCh      chan struct{}
	started     bool
	mu          sync.Mutex
}

type RelayOption func(*SnapshotRelay)

// WithBufferSize sets how many events may wait for the publisher.
func WithBufferSize(n int) RelayOption {
	return func(r *SnapshotRelay) {
		if n > 0 {
			r.bufSize = n
		}
	}
}

// WithMaxAttempts sets how many times one event is tried before it is dropped.
func WithMaxAttempts(n int) RelayOption {
	return func(r *SnapshotRelay) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithMaxBackoff caps the wait between attempts.
func WithMaxBackoff(d time.Duration) RelayOption {
	return func(r *SnapshotRelay) {
		if d > 0 {
			r.maxBackoff = d
		}
	}
}

// NewSnapshotRelay creates a relay. Call Start before enqueueing.
func NewSnapshotRelay(pub domrepo.SnapshotPublisher, metrics domrepo.Metrics, l *logger.Logger, opts ...RelayOption) *SnapshotRelay {
	r := &SnapshotRelay{
		pub:         pub,
		metrics:     metrics,
		logger:      l,
		bufSize:     256,
		maxAttempts: 3,
		maxBackoff:  2 * time.Second,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.bufCh = make(chan *models.PortfolioEvent, r.bufSize)
	return r
}

// Start launches the shipping goroutine. ctx is handed to the publisher.
func (r *SnapshotRelay) Start(ctx context.Context) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	go r.run(ctx)
}

// Enqueue buffers ev for shipping, dropping it when the buffer is full.
func (r *SnapshotRelay) Enqueue(ev *models.PortfolioEvent) {
	if ev == nil {
		return
	}
	select {
	case r.bufCh <- ev:
		r.metrics.RecordLatency("relay_buffer_depth", float64(len(r.bufCh)))
	default:
		r.metrics.RecordError("relay_buffer_full")
		r.logger.Warn("snapshot relay buffer full, event dropped", logger.String("state", ev.State))
	}
}

// Stop ships what is already buffered, then returns. Events still
// buffered when ctx ends are dropped.
func (r *SnapshotRelay) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = false
	close(r.stopCh)
	r.mu.Unlock()

	select {
	case <-r.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *SnapshotRelay) run(ctx context.Context) {
	defer close(r.doneCh)
	for {
		select {
		case ev := <-r.bufCh:
			r.ship(ctx, ev)
		case <-r.stopCh:
			for {
				select {
				case ev := <-r.bufCh:
					r.ship(ctx, ev)
				default:
					return
				}
			}
		}
	}
}

func (r *SnapshotRelay) ship(ctx context.Context, ev *models.PortfolioEvent) {
	start := time.Now()
	backoff := 50 * time.Millisecond
	for attempt := 1; ; attempt++ {
		err := r.pub.Publish(ctx, ev)
		if err == nil {
			r.metrics.RecordLatency("relay_publish", time.Since(start).Seconds())
			return
		}
		r.metrics.RecordError("relay_publish")
		if attempt >= r.maxAttempts || ctx.Err() != nil {
			r.logger.Error("snapshot publish failed, event dropped",
				logger.String("state", ev.State),
				logger.Int("attempts", attempt),
				logger.Error(err),
			)
			return
		}

		// exponential backoff with cap
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
		}
		if backoff < r.maxBackoff {
			backoff *= 2
			if backoff > r.maxBackoff {
				backoff = r.maxBackoff
			}
		}
	}
}
