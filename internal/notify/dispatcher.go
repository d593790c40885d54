package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher runs notification jobs in the background. A failing job is
// logged and otherwise ignored; callers never see its error.
type Dispatcher struct {
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(log *zap.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{log: log, timeout: timeout}
}

// Go starts job with its own context, detached from the request that
// queued it.
func (d *Dispatcher) Go(name string, job func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("notification job panicked", zap.String("job", name), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := job(ctx); err != nil {
			d.log.Warn("notification job failed", zap.String("job", name), zap.Error(err))
		}
	}()
}

// Wait blocks until every queued job has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Drain waits for queued jobs but gives up when ctx ends.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
