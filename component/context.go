// Package component implements a component container and lifecycle
// orchestrator: it constructs a declared set of named components,
// discovers dependencies between them implicitly by observing which
// other components each one looks up during its own construction via
// FindComponent, and drives every component through a shared sequence of
// lifecycle phases while respecting those emergent dependencies.
package component

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fibercore/component/fiber"
	"github.com/fibercore/component/manager"
	"github.com/fibercore/component/taskproc"
	"go.opentelemetry.io/otel/trace"
)

// logger is the minimal structured-logging surface the container needs —
// named the way the teacher names its own logging dependency, satisfied
// in the example app by a zap-backed implementation.
type logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}
func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Warnf(string, ...interface{})  {}

// Factory constructs one component. It runs synchronously on the fiber
// that called AddComponent, and may call back into c via FindComponent to
// look up other components — each such lookup records a dependency edge.
type Factory func(ctx context.Context, c *Context) (any, error)

// Option configures a Context at construction time.
type Option func(*Context)

// WithRuntime supplies the fiber scheduler the container is built
// against. Defaults to a goroutine-backed Runtime.
func WithRuntime(rt fiber.Runtime) Option {
	return func(c *Context) { c.rt = rt }
}

// WithTaskProcessors registers the read-only-after-construction name to
// Processor mapping returned by GetTaskProcessor/GetTaskProcessorsMap.
func WithTaskProcessors(reg taskproc.Registry) Option {
	return func(c *Context) { c.processors = reg }
}

// WithLogger supplies the structured logger used for phase transitions,
// dependency-edge creation, cycle diagnostics, and progress reports.
func WithLogger(log logger) Option {
	return func(c *Context) { c.log = log }
}

// WithProgressInterval overrides the default 10-second "still building"
// progress-reporter cadence.
func WithProgressInterval(d time.Duration) Option {
	return func(c *Context) { c.progressInterval = d }
}

// WithGraphOutput, when set, makes ClearComponents write the final
// dependency graph to path in Graphviz DOT format before returning.
func WithGraphOutput(path string) Option {
	return func(c *Context) { c.graphOutputFile = path }
}

// WithMetrics wires a Metrics sink that observes construction, phase, and
// error timing per component.
func WithMetrics(m Metrics) Option {
	return func(c *Context) { c.metrics = m }
}

// WithTracer wraps every factory invocation and every phase-handler
// invocation in a span, satisfying the tracing-sink collaborator spec.md
// treats as external: the core only needs the trace.Tracer contract.
func WithTracer(t trace.Tracer) Option {
	return func(c *Context) { c.tracer = t }
}

// Context is the component container: it owns the name->info map, drives
// lifecycle phases, and coordinates cancellation, exactly as spec'd.
type Context struct {
	mgr manager.Manager
	rt  fiber.Runtime
	log logger

	mu fiber.Mutex

	infos map[string]*info

	processors taskproc.Registry

	// building maps the handle of a fiber currently running a factory to
	// the component name it is building. At most one entry exists per
	// fiber at any time (invariant 5).
	building map[fiber.Handle]string

	loadCancelled atomic.Bool

	progressInterval time.Duration
	graphOutputFile  string
	metrics          Metrics
	tracer           trace.Tracer

	reporter *progressReporter
}

// New constructs a Context with a fixed set of expected component names.
// The reporter fiber starts immediately, spawned from ctx.
func New(ctx context.Context, mgr manager.Manager, names []string, opts ...Option) *Context {
	c := &Context{
		mgr:              mgr,
		rt:               fiber.NewGoroutineRuntime(),
		log:              noopLogger{},
		processors:       taskproc.Registry{},
		building:         make(map[fiber.Handle]string),
		progressInterval: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu = c.rt.NewMutex()
	c.infos = make(map[string]*info, len(names))
	for _, name := range names {
		c.infos[name] = newInfo(name, c.rt.NewCond(c.mu))
	}

	c.reporter = newProgressReporter(c)
	c.reporter.start(ctx)

	return c
}

// AddComponent constructs the named component by running factory
// synchronously on the calling fiber. Preconditions: name must be in the
// declared set, and no component may already be under construction on the
// current fiber (spec.md §4.2). AddComponent is typically called from a
// fiber spawned by the caller for exactly this purpose — see AddComponents
// for the common case of constructing every declared component
// concurrently, one fiber per name.
//
// A factory error cancels the whole load before AddComponent returns, the
// same way a failing phase handler cancels its phase from inside
// processSingleStageSwitching: any sibling already blocked on this
// component in FindComponent must be woken here, not left for a caller's
// join loop to notice — join order is unspecified and a sibling parked
// ahead of this one in that order would otherwise hang forever.
func (c *Context) AddComponent(ctx context.Context, name string, factory Factory) (any, error) {
	inf, ok := c.infos[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}

	handle := c.rt.Current(ctx)

	c.mu.Lock()
	if existing, building := c.building[handle]; building {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: this fiber is already building %q", ErrNestedComponentConstruction, existing)
	}
	c.building[handle] = name
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.building, handle)
		c.mu.Unlock()
	}()

	start := time.Now()
	instance, err := c.invokeFactory(ctx, name, factory)
	if c.metrics != nil {
		c.metrics.ComponentConstructed(name, time.Since(start), err)
	}
	if err != nil {
		c.CancelComponentsLoad()
		return nil, err
	}

	c.mu.Lock()
	setErr := inf.SetComponent(instance)
	c.mu.Unlock()
	if setErr != nil {
		return nil, fmt.Errorf("%w: %q", setErr, name)
	}

	c.log.Infof("component %q constructed", name)
	return instance, nil
}

// AddComponents spawns one fiber per (name, factory) pair and runs
// AddComponent on each concurrently, joining every fiber before
// returning. This is the usual entry point: it gives FindComponent's
// current-fiber-as-map-key identity scheme a distinct fiber per
// component, which a shared caller fiber calling AddComponent directly,
// in a loop, cannot provide.
func (c *Context) AddComponents(ctx context.Context, factories map[string]Factory) error {
	fibers := make([]fiber.Fiber, 0, len(factories))
	for name, factory := range factories {
		name, factory := name, factory
		fibers = append(fibers, c.rt.Spawn(ctx, func(ctx context.Context) error {
			_, err := c.AddComponent(ctx, name, factory)
			return err
		}))
	}

	// Every failing AddComponent already cancels the load itself (see
	// above), so by the time any Join here returns, every other fiber is
	// either done or unblocking on its own — join order cannot deadlock.
	// What join order can still do is pick which error surfaces first: a
	// sibling woken by the cancellation reports ErrStageSwitchingCancelled,
	// which must not outrank the real failure that caused it.
	var firstErr error
	for _, f := range fibers {
		err := f.Join()
		if err == nil {
			continue
		}
		if firstErr == nil || (isLoadCancellationError(firstErr) && !isLoadCancellationError(err)) {
			firstErr = err
		}
	}
	return firstErr
}

// isLoadCancellationError reports whether err stems from a dependency
// wait being woken by cancellation rather than from a real construction
// failure.
func isLoadCancellationError(err error) bool {
	return errors.Is(err, ErrStageSwitchingCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (c *Context) invokeFactory(ctx context.Context, name string, factory Factory) (any, error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "component.construct."+name)
		defer span.End()
		instance, err := factory(ctx, c)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("%w: %q: %w", ErrComponentConstructionFailed, name, err)
		}
		return instance, nil
	}

	instance, err := factory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrComponentConstructionFailed, name, err)
	}
	return instance, nil
}

// FindComponent looks up another component by name. It is legal only from
// inside a factory running on this Context, enforced by looking up the
// calling fiber in the building map. Each lookup records an implicit
// dependency edge (rejecting the lookup if it would close a cycle) and
// then either returns the target immediately or blocks until it is built
// or construction is cancelled.
func (c *Context) FindComponent(ctx context.Context, name string) (any, error) {
	target, ok := c.infos[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}

	handle := c.rt.Current(ctx)

	c.mu.Lock()
	from, building := c.building[handle]
	if !building {
		c.mu.Unlock()
		return nil, ErrLookupOutsideConstruction
	}

	fromInfo := c.infos[from]
	if !fromInfo.CheckItDependsOn(name) {
		if path, cyclic := c.wouldCycle(from, name); cyclic {
			c.mu.Unlock()
			c.log.Errorf("circular dependency detected: %v", path)
			return nil, &CircularDependencyError{From: from, To: name, Path: path}
		}
		fromInfo.AddItDependsOn(name)
		target.AddDependsOnIt(from)
		c.log.Debugf("component %q now depends on %q", from, name)
	}

	if instance, built := target.GetComponent(); built {
		c.mu.Unlock()
		return instance, nil
	}

	_ = c.rt.Critical(ctx, func(ctx context.Context) error {
		c.log.Infof("component %q is waiting for %q", from, name)
		return nil
	})

	instance, err := target.WaitAndGetComponent(ctx)
	c.mu.Unlock()
	return instance, err
}

// GetTaskProcessor returns the registered task processor named name.
func (c *Context) GetTaskProcessor(name string) (taskproc.Processor, error) {
	p, ok := c.processors[name]
	if !ok {
		return nil, fmt.Errorf("%w: task processor %q", ErrUnknownComponent, name)
	}
	return p, nil
}

// GetTaskProcessorsMap returns a snapshot of every registered task
// processor.
func (c *Context) GetTaskProcessorsMap() taskproc.Registry {
	snapshot := make(taskproc.Registry, len(c.processors))
	for name, p := range c.processors {
		snapshot[name] = p
	}
	return snapshot
}

// GetManager returns the opaque external Manager this Context was built
// with.
func (c *Context) GetManager() manager.Manager {
	return c.mgr
}

// CancelComponentsLoad is the external kill switch used during
// construction. It is idempotent (spec.md P7): calling it more than once
// has the same effect as calling it once.
func (c *Context) CancelComponentsLoad() {
	if c.loadCancelled.Swap(true) {
		return
	}
	c.mu.Lock()
	for _, inf := range c.infos {
		inf.onLoadingCancelled()
	}
	c.mu.Unlock()
	c.log.Warnf("component load cancelled")
}
