package taskproc

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool is the default Processor: a bounded worker pool over errgroup,
// limited by a weighted semaphore so at most `concurrency` tasks run at
// once. Grounded on the teacher's own use of golang.org/x/sync throughout
// its fiber-fan-out/join code, widened here from errgroup alone to also
// cover bounded concurrency via semaphore.
type Pool struct {
	name        string
	concurrency int64

	sem *semaphore.Weighted
	g   *errgroup.Group

	mu      sync.Mutex
	stopped bool
}

// NewPool creates a Processor named name that runs at most concurrency
// tasks at a time.
func NewPool(name string, concurrency int64) *Pool {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Pool{
		name:        name,
		concurrency: concurrency,
		sem:         semaphore.NewWeighted(concurrency),
		g:           &errgroup.Group{},
	}
}

func (p *Pool) Name() string { return p.name }

// Submit blocks until a worker slot is available or ctx is done, then
// schedules task to run on its own goroutine under the pool's errgroup.
func (p *Pool) Submit(ctx context.Context, task func(ctx context.Context) error) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return fmt.Errorf("taskproc: pool %q is stopped", p.name)
	}
	p.mu.Unlock()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("taskproc: acquire slot in pool %q: %w", p.name, err)
	}

	taskID := uuid.New()
	p.g.Go(func() error {
		defer p.sem.Release(1)
		if err := task(ctx); err != nil {
			return fmt.Errorf("taskproc: pool %q task %s: %w", p.name, taskID, err)
		}
		return nil
	})
	return nil
}

// Stop marks the pool closed to new submissions and waits for all
// in-flight tasks to finish, returning the first task error if any.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- p.g.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
