package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"StockPull/internal/domain/models"
	"StockPull/pkg/logger"
	"StockPull/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	failures int
	calls    int
	got      []*models.PortfolioEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev *models.PortfolioEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.got = append(p.got, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) states() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.got))
	for i, ev := range p.got {
		out[i] = ev.State
	}
	return out
}

func event(state string) *models.PortfolioEvent {
	return &models.PortfolioEvent{State: state, Holdings: []models.Holding{}}
}

func TestSnapshotRelayShipsInOrder(t *testing.T) {
	pub := &recordingPublisher{}
	r := NewSnapshotRelay(pub, metrics.Nop{}, logger.Nop())
	r.Start(context.Background())

	r.Enqueue(event("loading"))
	r.Enqueue(event("loaded"))
	r.Enqueue(nil)
	require.NoError(t, r.Stop(context.Background()))

	assert.Equal(t, []string{"loading", "loaded"}, pub.states())
}

func TestSnapshotRelayRetriesThenSucceeds(t *testing.T) {
	pub := &recordingPublisher{failures: 2}
	r := NewSnapshotRelay(pub, metrics.Nop{}, logger.Nop(), WithMaxAttempts(3), WithMaxBackoff(time.Millisecond))
	r.Start(context.Background())

	r.Enqueue(event("loaded"))
	require.NoError(t, r.Stop(context.Background()))

	assert.Equal(t, []string{"loaded"}, pub.states())
	assert.Equal(t, 3, pub.calls)
}

func TestSnapshotRelayDropsAfterMaxAttempts(t *testing.T) {
	pub := &recordingPublisher{failures: 2}
	r := NewSnapshotRelay(pub, metrics.Nop{}, logger.Nop(), WithMaxAttempts(2), WithMaxBackoff(time.Millisecond))
	r.Start(context.Background())

	r.Enqueue(event("loading"))
	r.Enqueue(event("loaded"))
	require.NoError(t, r.Stop(context.Background()))

	assert.Equal(t, []string{"loaded"}, pub.states())
}

func TestSnapshotRelayDropsWhenFull(t *testing.T) {
	pub := &recordingPublisher{}
	r := NewSnapshotRelay(pub, metrics.Nop{}, logger.Nop(), WithBufferSize(1))

	// not started: the buffer fills and the second event is dropped
	r.Enqueue(event("loading"))
	r.Enqueue(event("loaded"))

	r.Start(context.Background())
	require.NoError(t, r.Stop(context.Background()))
	assert.Equal(t, []string{"loading"}, pub.states())
}

func TestSnapshotRelayStopWithoutStart(t *testing.T) {
	r := NewSnapshotRelay(&recordingPublisher{}, metrics.Nop{}, logger.Nop())
	assert.NoError(t, r.Stop(context.Background()))
}
