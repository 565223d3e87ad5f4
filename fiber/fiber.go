// Package fiber defines the contract the component container consumes
// from a cooperative fiber scheduler: spawning and joining units of work,
// a cooperative mutex, and a cooperative condition variable. The
// scheduler's own internals are out of scope for this repository — this
// package only states what the container needs from one, plus a default
// goroutine-backed implementation for callers that don't have a dedicated
// fiber runtime available.
package fiber

import "context"

// Handle identifies the fiber a piece of code is currently running on.
// Two calls to Runtime.Current made from the same logical fiber must
// return equal handles; calls from different fibers must not.
type Handle any

// Fiber is a handle to a unit of work spawned on a Runtime.
type Fiber interface {
	// Join blocks until the fiber has finished and returns its error.
	// Join must be safe to call exactly once; callers that spawn a fiber
	// are responsible for joining it on every exit path.
	Join() error
}

// Mutex is a cooperative mutex: acquiring it yields the current fiber
// rather than blocking the underlying OS thread. It is not reentrant.
type Mutex interface {
	Lock()
	Unlock()
}

// Cond is a cooperative condition variable bound to a Mutex, in the same
// spirit as sync.Cond: the caller must hold the bound Mutex before calling
// Wait, which atomically releases it while suspended and reacquires it
// before returning.
type Cond interface {
	// Wait suspends the current fiber until Broadcast is called or ctx is
	// done, whichever happens first. It returns ctx.Err() in the latter
	// case. The caller must hold the bound Mutex; Wait releases it for the
	// duration of the wait and reacquires it before returning, regardless
	// of outcome.
	Wait(ctx context.Context) error

	// Broadcast wakes every fiber currently blocked in Wait.
	Broadcast()
}

// Runtime is the fiber scheduler contract the component container is
// built against. The container never spawns goroutines or takes locks
// directly; it always goes through a Runtime, so a caller running on an
// actual fiber/coroutine scheduler can supply its own implementation
// without the container changing at all.
type Runtime interface {
	// Spawn starts fn on a new fiber, derived from ctx, and returns a
	// handle that can be used to Join it. fn observes ctx cancellation
	// cooperatively; Spawn itself never blocks.
	Spawn(ctx context.Context, fn func(ctx context.Context) error) Fiber

	// Current returns a handle identifying the fiber ctx is executing on.
	Current(ctx context.Context) Handle

	// NewMutex creates a cooperative mutex.
	NewMutex() Mutex

	// NewCond creates a cooperative condition variable guarded by l.
	NewCond(l Mutex) Cond

	// Critical runs fn with cancellation from ctx suppressed for the
	// duration of the call. It is used for short, non-blocking sections
	// that must complete even if the caller's context is cancelled mid-way
	// — e.g. emitting the "now waiting for X" diagnostic before a
	// cancellable wait begins.
	Critical(ctx context.Context, fn func(ctx context.Context) error) error
}
