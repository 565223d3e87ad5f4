package fiber

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// goroutineRuntime is the default Runtime, backed by plain goroutines.
//
// Go exposes no stable, comparable handle for "the goroutine currently
// executing" the way a fiber/coroutine runtime typically does, so fiber
// identity is threaded through the context instead — exactly the
// workaround the component package's own design notes call for when a
// runtime has no stable task handle.
type goroutineRuntime struct{}

// NewGoroutineRuntime returns the default Runtime implementation, used
// whenever no dedicated fiber/coroutine scheduler is supplied.
func NewGoroutineRuntime() Runtime {
	return goroutineRuntime{}
}

type handleKey struct{}

type goroutineFiber struct {
	done chan struct{}
	err  error
}

func (f *goroutineFiber) Join() error {
	<-f.done
	return f.err
}

// Spawn starts fn on a new goroutine, stamping the derived context with a
// fresh handle so Current can identify it later.
func (r goroutineRuntime) Spawn(ctx context.Context, fn func(ctx context.Context) error) Fiber {
	f := &goroutineFiber{done: make(chan struct{})}
	fiberCtx := context.WithValue(ctx, handleKey{}, Handle(uuid.New()))
	go func() {
		defer close(f.done)
		f.err = fn(fiberCtx)
	}()
	return f
}

func (r goroutineRuntime) Current(ctx context.Context) Handle {
	if h := ctx.Value(handleKey{}); h != nil {
		return h
	}
	return nil
}

func (r goroutineRuntime) NewMutex() Mutex {
	return &sync.Mutex{}
}

func (r goroutineRuntime) NewCond(l Mutex) Cond {
	return &broadcastCond{l: l, ch: make(chan struct{})}
}

// Critical detaches fn's context from ctx's cancellation for the duration
// of the call, so a short diagnostic log statement can't be interrupted
// mid-write by the very cancellation it's reporting on.
func (r goroutineRuntime) Critical(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithoutCancel(ctx))
}

// broadcastCond implements Cond with a channel that is closed (and
// replaced) on every Broadcast, rather than wrapping sync.Cond. A
// sync.Cond has no notion of per-waiter cancellation: hooking a context
// timeout to it would require calling Broadcast to unstick one waiter,
// which would spuriously wake every other legitimate waiter on the same
// Cond. The channel-swap pattern lets each Wait select independently on
// its own ctx.Done() without disturbing the others.
type broadcastCond struct {
	l  Mutex
	mu sync.Mutex
	ch chan struct{}
}

func (c *broadcastCond) Wait(ctx context.Context) error {
	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()

	c.l.Unlock()
	defer c.l.Lock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *broadcastCond) Broadcast() {
	c.mu.Lock()
	close(c.ch)
	c.ch = make(chan struct{})
	c.mu.Unlock()
}
