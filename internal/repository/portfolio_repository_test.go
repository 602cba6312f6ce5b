package repository

import (
	"context"
	"errors"
	"testing"

	"StockPull/internal/domain/models"
	drepo "StockPull/internal/domain/repository"
	"StockPull/pkg/cache"
	"StockPull/pkg/logger"
	"StockPull/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testURL     = "https://portfolio.test/"
	onePayload  = `{"data":{"user_holding":[{"symbol":"AAA","quantity":2,"ltp":150,"avg_price":120,"close":140}]}}`
	netPayload  = `{"data":{"user_holding":[{"symbol":"NET","quantity":1,"ltp":50,"avg_price":40,"close":45}]}}`
	corruptJSON = `{"data":{"user_holding":[{"symbol":`
)

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// racyStore reports an entry that disappears before it can be read.
type racyStore struct {
	*cache.MemoryStore
}

func (racyStore) Exists(string) bool { return true }

// failingStore fails every Save and Load with the configured errors.
type failingStore struct {
	*cache.MemoryStore
	saveErr error
	loadErr error
}

func (s failingStore) Save(data []byte, key string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.MemoryStore.Save(data, key)
}

func (s failingStore) Load(key string) ([]byte, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.MemoryStore.Load(key)
}

func newRepo(t *testing.T, tr *mockTransport, store drepo.CacheStore) (*PortfolioRepository, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewPortfolioRepository(tr, store, NewPortfolioDecoder(), metrics.New(reg), logger.Nop(), testURL, ""), reg
}

// counterValue reads one labelled sample of a counter family from reg.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestFetchPortfolioCacheHitSkipsNetwork(t *testing.T) {
	store := cache.NewMemoryStore()
	require.NoError(t, store.Save([]byte(onePayload), DefaultCacheKey))

	tr := &mockTransport{}
	repo, reg := newRepo(t, tr, store)

	holdings, err := repo.FetchPortfolio(context.Background())
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "AAA", holdings[0].Symbol)

	tr.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, counterValue(t, reg, "stockpull_portfolio_fetches_total", SourceCache))
}

func TestFetchPortfolioCorruptCacheFallsBack(t *testing.T) {
	store := cache.NewMemoryStore()
	require.NoError(t, store.Save([]byte(corruptJSON), DefaultCacheKey))

	tr := &mockTransport{}
	tr.On("Fetch", mock.Anything, testURL).Return([]byte(netPayload), nil).Once()
	repo, _ := newRepo(t, tr, store)

	holdings, err := repo.FetchPortfolio(context.Background())
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "NET", holdings[0].Symbol)
	tr.AssertNumberOfCalls(t, "Fetch", 1)

	cached, err := store.Load(DefaultCacheKey)
	require.NoError(t, err)
	assert.Equal(t, netPayload, string(cached), "fresh bytes replace the corrupt entry verbatim")
}

func TestFetchPortfolioSchemaMismatchInCacheFallsBack(t *testing.T) {
	store := cache.NewMemoryStore()
	require.NoError(t, store.Save([]byte(`{"data":{"userHolding":[]}}`), DefaultCacheKey))

	tr := &mockTransport{}
	tr.On("Fetch", mock.Anything, testURL).Return([]byte(netPayload), nil).Once()
	repo, _ := newRepo(t, tr, store)

	_, err := repo.FetchPortfolio(context.Background())
	require.NoError(t, err)
	tr.AssertExpectations(t)
}

func TestFetchPortfolioCacheWriteFailureIsSwallowed(t *testing.T) {
	mem := cache.NewMemoryStore()
	require.NoError(t, mem.Save([]byte(corruptJSON), DefaultCacheKey))
	store := failingStore{MemoryStore: mem, saveErr: errors.New("read-only filesystem")}

	tr := &mockTransport{}
	tr.On("Fetch", mock.Anything, testURL).Return([]byte(netPayload), nil).Once()
	repo, reg := newRepo(t, tr, store)

	holdings, err := repo.FetchPortfolio(context.Background())
	require.NoError(t, err)
	assert.Len(t, holdings, 1)
	tr.AssertNumberOfCalls(t, "Fetch", 1)
	assert.Equal(t, 1.0, counterValue(t, reg, "stockpull_cache_failures_total", "save"))
	assert.Equal(t, 1.0, counterValue(t, reg, "stockpull_cache_failures_total", "decode"))
}

func TestFetchPortfolioEntryVanishesAfterExists(t *testing.T) {
	store := racyStore{cache.NewMemoryStore()}

	tr := &mockTransport{}
	tr.On("Fetch", mock.Anything, testURL).Return([]byte(netPayload), nil).Once()
	repo, reg := newRepo(t, tr, store)

	_, err := repo.FetchPortfolio(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(t, reg, "stockpull_cache_failures_total", "miss"))
}

func TestFetchPortfolioCacheLoadErrorFallsBack(t *testing.T) {
	mem := cache.NewMemoryStore()
	require.NoError(t, mem.Save([]byte(onePayload), DefaultCacheKey))
	store := failingStore{MemoryStore: mem, loadErr: errors.New("permission denied")}

	tr := &mockTransport{}
	tr.On("Fetch", mock.Anything, testURL).Return([]byte(netPayload), nil).Once()
	repo, _ := newRepo(t, tr, store)

	holdings, err := repo.FetchPortfolio(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "NET", holdings[0].Symbol)
}

func TestFetchPortfolioNetworkFailurePropagates(t *testing.T) {
	store := cache.NewMemoryStore()
	cause := models.NetworkError(errors.New("not connected to internet"))

	tr := &mockTransport{}
	tr.On("Fetch", mock.Anything, testURL).Return(nil, cause).Once()
	repo, reg := newRepo(t, tr, store)

	holdings, err := repo.FetchPortfolio(context.Background())
	assert.Nil(t, holdings)
	assert.ErrorIs(t, err, models.ErrNetwork)
	assert.Same(t, cause, err, "transport errors are returned as is")
	assert.False(t, store.Exists(DefaultCacheKey))
	assert.Equal(t, 1.0, counterValue(t, reg, "stockpull_errors_total", "network"))
}

func TestFetchPortfolioNetworkDecodeFailurePropagates(t *testing.T) {
	store := cache.NewMemoryStore()

	tr := &mockTransport{}
	tr.On("Fetch", mock.Anything, testURL).Return([]byte(corruptJSON), nil).Once()
	repo, _ := newRepo(t, tr, store)

	_, err := repo.FetchPortfolio(context.Background())
	assert.ErrorIs(t, err, models.ErrDecoding)

	// the raw body is cached before decoding, as fetched
	cached, loadErr := store.Load(DefaultCacheKey)
	require.NoError(t, loadErr)
	assert.Equal(t, corruptJSON, string(cached))
}

func TestFetchPortfolioCacheIsNeverExpired(t *testing.T) {
	store := cache.NewMemoryStore()
	tr := &mockTransport{}
	tr.On("Fetch", mock.Anything, testURL).Return([]byte(onePayload), nil).Once()
	repo, _ := newRepo(t, tr, store)

	for i := 0; i < 3; i++ {
		_, err := repo.FetchPortfolio(context.Background())
		require.NoError(t, err)
	}
	tr.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestNewPortfolioRepositoryDefaultKey(t *testing.T) {
	repo := NewPortfolioRepository(&mockTransport{}, cache.NewMemoryStore(), NewPortfolioDecoder(), metrics.Nop{}, logger.Nop(), testURL, "")
	assert.Equal(t, "portfolio_cache.json", repo.cacheKey)
}
