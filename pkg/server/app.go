package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	domrepo "StockPull/internal/domain/repository"
	mid "StockPull/internal/middleware"
	"StockPull/internal/usecase"
	"StockPull/pkg/config"
	xhttp "StockPull/pkg/http"
	applogger "StockPull/pkg/logger"
	"StockPull/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	vm         *usecase.PortfolioViewModel
	queue      *queue.Serial
	relay      *mid.SnapshotRelay
	publisher  domrepo.SnapshotPublisher
	httpServer *xhttp.Server

	startOnce   sync.Once
	unsubscribe func()
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	vm *usecase.PortfolioViewModel,
	q *queue.Serial,
	relay *mid.SnapshotRelay,
	publisher domrepo.SnapshotPublisher,
	httpServer *xhttp.Server,
) *App {
	return &App{
		cfg:        cfg,
		logger:     l,
		vm:         vm,
		queue:      q,
		relay:      relay,
		publisher:  publisher,
		httpServer: httpServer,
	}
}

// ViewModel returns the portfolio view-model.
func (a *App) ViewModel() *usecase.PortfolioViewModel { return a.vm }

// Logger returns the application logger.
func (a *App) Logger() *applogger.Logger { return a.logger }

// Start wires the snapshot relay to the view-model. The relay outlives ctx
// and is stopped by Shutdown. It is safe to call more than once.
func (a *App) Start(ctx context.Context) {
	a.startOnce.Do(func() {
		if a.relay == nil {
			return
		}
		a.relay.Start(context.WithoutCancel(ctx))
		a.unsubscribe = a.vm.Subscribe(func(s usecase.Snapshot) {
			a.relay.Enqueue(s.Event(time.Now().UTC()))
		})
	})
}

// LoadOnce starts the app and runs a single load.
func (a *App) LoadOnce(ctx context.Context) (usecase.Snapshot, error) {
	a.Start(ctx)
	err := a.vm.Load(ctx)
	return a.vm.Snapshot(), err
}

// Run serves the API until ctx ends or an interrupt arrives. The first
// load starts in the background as soon as the server is up.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Start(ctx)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	go func() {
		if err := a.vm.Load(ctx); err != nil && !errors.Is(err, queue.ErrClosed) {
			a.logger.Warn("initial portfolio load failed", applogger.Error(err))
		}
	}()

	<-ctx.Done()
	a.logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

// Shutdown stops the server, drains the queue and flushes pending snapshots.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	var errs []error
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.logger.Error("http shutdown error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if err := a.queue.Stop(ctx); err != nil {
		a.logger.Warn("state queue stop error", applogger.Error(err))
		errs = append(errs, err)
	}

	if a.relay != nil {
		if err := a.relay.Stop(ctx); err != nil {
			a.logger.Warn("snapshot relay stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("snapshot publisher close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
