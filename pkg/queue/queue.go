package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"StockPull/pkg/logger"
)

// ErrClosed is returned when dispatching to a stopped queue.
var ErrClosed = errors.New("queue closed")

// DefaultSize is the task buffer used when none is configured.
const DefaultSize = 64

// Task is a unit of work run on the queue's goroutine.
type Task func()

// Serial runs tasks one at a time, in dispatch order, on a single goroutine.
// State that is only touched from tasks needs no further locking.
//
// A task must not call DispatchSync on its own queue; it would wait on itself.
type Serial struct {
	logger *logger.Logger
	tasks  chan Task
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewSerial starts a serial queue with a buffer of size tasks.
func NewSerial(lgr *logger.Logger, size int) *Serial {
	if lgr == nil {
		lgr = logger.Nop()
	}
	if size <= 0 {
		size = DefaultSize
	}

	s := &Serial{
		logger: lgr,
		tasks:  make(chan Task, size),
		done:   make(chan struct{}),
	}
	go s.worker()
	return s
}

// Dispatch enqueues task and returns without waiting for it to run.
// It blocks while the buffer is full.
func (s *Serial) Dispatch(task Task) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}
	s.tasks <- task
	return nil
}

// DispatchSync enqueues task and waits until it has run or ctx is done.
// When ctx ends first the task still runs later.
func (s *Serial) DispatchSync(ctx context.Context, task Task) error {
	finished := make(chan struct{})
	if err := s.Dispatch(func() {
		defer close(finished)
		task()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new tasks, lets queued ones finish and waits for the worker.
func (s *Serial) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.tasks)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		s.logger.Warn("timeout waiting for queued tasks", logger.Error(ctx.Err()))
		return fmt.Errorf("timeout: %w", ctx.Err())
	}
}

func (s *Serial) worker() {
	defer close(s.done)
	for task := range s.tasks {
		s.run(task)
	}
}

func (s *Serial) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("queued task panicked", logger.Any("panic", r))
		}
	}()
	task()
}
