package usecase

import (
	"context"
	"slices"
	"time"

	"StockPull/internal/domain/models"
	drepo "StockPull/internal/domain/repository"
	"StockPull/pkg/logger"
	"StockPull/pkg/queue"
)

// Snapshot is the state and holdings taken from one publish.
type Snapshot struct {
	State    models.ViewState
	Holdings []models.Holding
}

// Summary derives every metric from the snapshot's holdings.
func (s Snapshot) Summary() models.Summary {
	return models.Summarize(s.Holdings)
}

// Event converts the snapshot for serialisation.
func (s Snapshot) Event(at time.Time) *models.PortfolioEvent {
	return models.NewPortfolioEvent(s.State, s.Holdings, at)
}

// Observer receives snapshots on the view-model's queue. It must return
// promptly and must not call back into the view-model synchronously.
type Observer func(Snapshot)

// PortfolioViewModel holds the presented holdings and load state.
//
// state, holdings and observers are only touched by tasks on q, so every
// read sees one whole publish. The view-model performs no I/O itself.
//
// Concurrent Load calls are not serialised: each publishes Loading, and
// whichever fetch finishes last decides the final state.
type PortfolioViewModel struct {
	repo    drepo.PortfolioRepository
	q       *queue.Serial
	metrics drepo.Metrics
	logger  *logger.Logger

	state     models.ViewState
	holdings  []models.Holding
	observers map[int]Observer
	nextID    int
}

// NewPortfolioViewModel creates a view-model in the Idle state with no holdings.
func NewPortfolioViewModel(repo drepo.PortfolioRepository, q *queue.Serial, metrics drepo.Metrics, l *logger.Logger) *PortfolioViewModel {
	return &PortfolioViewModel{
		repo:      repo,
		q:         q,
		metrics:   metrics,
		logger:    l,
		state:     models.StateIdle,
		observers: make(map[int]Observer),
	}
}

// Load publishes Loading, fetches holdings and publishes Loaded or
// Error(kind). On failure the previous holdings are kept. The returned error
// is the same AppError stored in the state, or queue.ErrClosed.
//
// ctx bounds the fetch only; the Loading publish is never skipped.
func (vm *PortfolioViewModel) Load(ctx context.Context) error {
	if err := vm.sync(func() {
		vm.state = models.StateLoading
		vm.publish()
	}); err != nil {
		return err
	}

	start := time.Now()
	holdings, err := vm.repo.FetchPortfolio(ctx)
	if err != nil {
		appErr := models.MapError(err)
		vm.logger.Warn("portfolio load failed",
			logger.String("kind", appErr.Kind.String()),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err),
		)
		if qErr := vm.sync(func() {
			vm.state = models.StateError(appErr)
			vm.publish()
		}); qErr != nil {
			return qErr
		}
		return appErr
	}

	vm.metrics.RecordPortfolio(len(holdings), models.CurrentValue(holdings))
	vm.logger.Info("portfolio loaded",
		logger.Int("holdings", len(holdings)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return vm.sync(func() {
		vm.holdings = holdings
		vm.state = models.StateLoaded
		vm.publish()
	})
}

// Snapshot returns the current state and holdings together. Once the queue
// is stopped it returns the zero Snapshot.
func (vm *PortfolioViewModel) Snapshot() Snapshot {
	var s Snapshot
	_ = vm.sync(func() { s = vm.snapshot() })
	return s
}

// Holdings returns a copy of the presented holdings.
func (vm *PortfolioViewModel) Holdings() []models.Holding {
	return vm.Snapshot().Holdings
}

// State returns the load state.
func (vm *PortfolioViewModel) State() models.ViewState {
	return vm.Snapshot().State
}

func (vm *PortfolioViewModel) CurrentValue() float64 {
	return models.CurrentValue(vm.Holdings())
}

func (vm *PortfolioViewModel) TotalInvestment() float64 {
	return models.TotalInvestment(vm.Holdings())
}

func (vm *PortfolioViewModel) TotalPNL() float64 {
	return models.TotalPNL(vm.Holdings())
}

func (vm *PortfolioViewModel) TodaysPNL() float64 {
	return models.TodaysPNL(vm.Holdings())
}

// TotalPNLPercent is zero when nothing was invested.
func (vm *PortfolioViewModel) TotalPNLPercent() float64 {
	h := vm.Holdings()
	return models.PNLPercent(models.TotalPNL(h), models.TotalInvestment(h))
}

// Summary returns every derived metric from one consistent snapshot.
func (vm *PortfolioViewModel) Summary() models.Summary {
	return vm.Snapshot().Summary()
}

// Subscribe registers fn for every later publish and returns a func that
// removes it. fn runs on the view-model's queue.
func (vm *PortfolioViewModel) Subscribe(fn Observer) (unsubscribe func()) {
	id := -1
	if err := vm.sync(func() {
		id = vm.nextID
		vm.nextID++
		vm.observers[id] = fn
	}); err != nil {
		return func() {}
	}

	return func() {
		_ = vm.q.Dispatch(func() { delete(vm.observers, id) })
	}
}

func (vm *PortfolioViewModel) snapshot() Snapshot {
	return Snapshot{State: vm.state, Holdings: slices.Clone(vm.holdings)}
}

// publish runs on the queue.
func (vm *PortfolioViewModel) publish() {
	if len(vm.observers) == 0 {
		return
	}
	s := vm.snapshot()
	for _, fn := range vm.observers {
		fn(s)
	}
}

func (vm *PortfolioViewModel) sync(task queue.Task) error {
	return vm.q.DispatchSync(context.Background(), task)
}
