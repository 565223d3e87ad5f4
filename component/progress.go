package component

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fibercore/component/fiber"
)

// progressReporter runs on its own fiber, spawned the instant a Context is
// built, and periodically logs which declared components have not yet
// finished construction. OnAllComponentsLoaded stops it once every
// component has either finished or the phase has been cancelled;
// ClearComponents stops it again defensively in case it is still running
// because construction was abandoned before Loaded ever ran.
type progressReporter struct {
	c *Context

	mu      sync.Mutex
	cancel  context.CancelFunc
	f       fiber.Fiber
	stopped bool
}

func newProgressReporter(c *Context) *progressReporter {
	return &progressReporter{c: c}
}

func (r *progressReporter) start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.f = r.c.rt.Spawn(runCtx, r.run)
}

func (r *progressReporter) run(ctx context.Context) error {
	ticker := time.NewTicker(r.c.progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.report()
		}
	}
}

func (r *progressReporter) report() {
	r.c.mu.Lock()
	pending := make([]string, 0, len(r.c.infos))
	for name, inf := range r.c.infos {
		if _, built := inf.GetComponent(); !built {
			pending = append(pending, name)
		}
	}
	r.c.mu.Unlock()

	if len(pending) == 0 {
		return
	}
	sort.Strings(pending)
	r.c.log.Infof("still constructing: %v", pending)
}

func (r *progressReporter) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	r.cancel()
}

func (r *progressReporter) join() {
	r.stop()
	_ = r.f.Join()
}
