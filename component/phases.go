package component

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fibercore/component/fiber"
	"go.opentelemetry.io/otel/trace"
)

// LoadedNotifiable is implemented by components that need to run code
// once every component has finished construction and every dependency of
// theirs has already reached StageRunning.
type LoadedNotifiable interface {
	OnAllComponentsLoaded(ctx context.Context) error
}

// StoppingNotifiable is implemented by components that need to run code
// once every component that depends on them has already reached
// StageReadyForClearing.
type StoppingNotifiable interface {
	OnAllComponentsAreStopping(ctx context.Context) error
}

// Clearable is implemented by components that hold resources (files,
// connections, goroutines) which must be released once every component
// that depends on them has already been cleared.
type Clearable interface {
	ClearComponent(ctx context.Context) error
}

type direction int

const (
	dirNormal direction = iota
	dirInverted
)

// stageSwitchParams describes one of the three fixed phases the driver
// knows how to run.
type stageSwitchParams struct {
	targetStage     Stage
	displayName     string
	direction       direction
	allowCancelling bool
	handler         func(ctx context.Context, instance any) error
}

// OnAllComponentsLoaded advances every component from StageCreateCalled to
// StageRunning. A component's handler runs only after every component it
// looked up during construction has itself already reached StageRunning —
// the dependency order discovered implicitly during construction now
// governs a real lifecycle transition. A handler returning a
// non-cancellation error here cancels the whole phase: every blocked
// sibling wakes with ErrStageSwitchingCancelled.
func (c *Context) OnAllComponentsLoaded(ctx context.Context) error {
	c.reporter.stop()
	return c.processAllStageSwitchings(ctx, stageSwitchParams{
		targetStage:     StageRunning,
		displayName:     "OnAllComponentsLoaded",
		direction:       dirNormal,
		allowCancelling: true,
		handler:         callLoaded,
	})
}

// OnAllComponentsAreStopping advances every component from StageRunning to
// StageReadyForClearing, in the reverse order: a component's handler runs
// only after every component that depends on it has already reached
// StageReadyForClearing. Handler failures here are logged and do not
// cancel the phase — teardown is best-effort.
func (c *Context) OnAllComponentsAreStopping(ctx context.Context) error {
	return c.processAllStageSwitchings(ctx, stageSwitchParams{
		targetStage:     StageReadyForClearing,
		displayName:     "OnAllComponentsAreStopping",
		direction:       dirInverted,
		allowCancelling: false,
		handler:         callStopping,
	})
}

// ClearComponents destroys every component's instance, in the same
// reverse order as OnAllComponentsAreStopping, returning every component
// to StageNull. Handler failures here are logged and do not cancel the
// phase.
func (c *Context) ClearComponents(ctx context.Context) error {
	c.reporter.join()
	err := c.processAllStageSwitchings(ctx, stageSwitchParams{
		targetStage:     StageNull,
		displayName:     "ClearComponents",
		direction:       dirInverted,
		allowCancelling: false,
		handler:         callClear,
	})
	if werr := c.writeGraphToFile(c.graphOutputFile); werr != nil {
		c.log.Errorf("writing dependency graph to %q: %v", c.graphOutputFile, werr)
	}
	return err
}

func callLoaded(ctx context.Context, instance any) error {
	n, ok := instance.(LoadedNotifiable)
	if !ok {
		return nil
	}
	return n.OnAllComponentsLoaded(ctx)
}

func callStopping(ctx context.Context, instance any) error {
	n, ok := instance.(StoppingNotifiable)
	if !ok {
		return nil
	}
	return n.OnAllComponentsAreStopping(ctx)
}

func callClear(ctx context.Context, instance any) error {
	n, ok := instance.(Clearable)
	if !ok {
		return nil
	}
	return n.ClearComponent(ctx)
}

// processAllStageSwitchings spawns one fiber per component, each of which
// waits on its neighbors (in params.direction) before running
// params.handler, then joins every fiber in turn. A non-cancellation
// error observed while joining trips this phase's own cancellation flag —
// fresh for every call, distinct from the load-cancellation flag
// CancelComponentsLoad sets — so siblings still being joined unblock
// promptly instead of waiting out a dependency that will never arrive.
func (c *Context) processAllStageSwitchings(ctx context.Context, params stageSwitchParams) error {
	c.mu.Lock()
	for _, inf := range c.infos {
		inf.resetForClear()
	}
	c.mu.Unlock()

	fibers := make(map[string]fiber.Fiber, len(c.infos))
	for name, inf := range c.infos {
		name, inf := name, inf
		fibers[name] = c.rt.Spawn(ctx, func(ctx context.Context) error {
			return c.processSingleStageSwitching(ctx, name, inf, params)
		})
	}

	var firstErr error
	var triggeredCancel bool
	for _, f := range fibers {
		err := f.Join()
		if err == nil || errors.Is(err, ErrStageSwitchingCancelled) {
			continue
		}
		if firstErr == nil {
			firstErr = err
		}
		if !triggeredCancel {
			triggeredCancel = true
			c.cancelStageSwitching()
		}
	}

	if firstErr == nil && c.anyStageSwitchingCancelled() {
		return fmt.Errorf("%w (phase %s)", ErrProtocolViolation, params.displayName)
	}
	return firstErr
}

// anyStageSwitchingCancelled reports whether any component ended this
// phase in a cancelled state — the phase-local flag spec.md describes,
// reset fresh by resetForClear at the top of every processAllStageSwitchings
// call.
func (c *Context) anyStageSwitchingCancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, inf := range c.infos {
		if inf.stageSwitchingCancelled {
			return true
		}
	}
	return false
}

// cancelStageSwitching broadcasts cancellation to every component,
// unblocking any fiber parked in WaitStage or WaitAndGetComponent.
func (c *Context) cancelStageSwitching() {
	c.mu.Lock()
	for _, inf := range c.infos {
		inf.onLoadingCancelled()
	}
	c.mu.Unlock()
}

// processSingleStageSwitching drives one component through one phase: wait
// for every neighbor in params.direction to reach params.targetStage, run
// the handler, then unconditionally advance this component's own stage.
func (c *Context) processSingleStageSwitching(ctx context.Context, name string, inf *info, params stageSwitchParams) error {
	c.mu.Lock()

	var neighbors []string
	switch params.direction {
	case dirNormal:
		inf.ForEachItDependsOn(func(n string) { neighbors = append(neighbors, n) })
	case dirInverted:
		inf.ForEachDependsOnIt(func(n string) { neighbors = append(neighbors, n) })
	}

	for _, n := range neighbors {
		neighbor := c.infos[n]
		if err := neighbor.WaitStage(ctx, params.targetStage, params.displayName); err != nil {
			inf.SetStage(params.targetStage)
			c.mu.Unlock()
			return err
		}
	}

	// A neighbor can reach targetStage either by succeeding or by being
	// forced there after some other component's allow_cancelling failure
	// broadcast cancellation to everyone; the neighbor's stage alone can't
	// tell those apart. This component's own stageSwitchingCancelled flag,
	// set by that same broadcast, can — check it before running the
	// handler at all.
	if inf.stageSwitchingCancelled {
		inf.SetStage(params.targetStage)
		c.mu.Unlock()
		return ErrStageSwitchingCancelled
	}

	instance, _ := inf.GetComponent()
	c.mu.Unlock()

	err := c.invokePhaseHandler(ctx, name, params, instance)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case errors.Is(err, ErrStageSwitchingCancelled):
		inf.stageSwitchingCancelled = true
		inf.SetStage(params.targetStage)
		return err

	case err != nil && params.allowCancelling:
		inf.stageSwitchingCancelled = true
		for _, other := range c.infos {
			other.onLoadingCancelled()
		}
		inf.SetStage(params.targetStage)
		return err

	case err != nil:
		c.log.Errorf("component %q: %s failed (continuing): %v", name, params.displayName, err)
		inf.SetStage(params.targetStage)
		return nil

	default:
		inf.SetStage(params.targetStage)
		return nil
	}
}

func (c *Context) invokePhaseHandler(ctx context.Context, name string, params stageSwitchParams, instance any) (err error) {
	start := time.Now()
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, fmt.Sprintf("component.%s.%s", params.displayName, name))
		defer span.End()
		err = params.handler(ctx, instance)
		if err != nil {
			span.RecordError(err)
		}
	} else {
		err = params.handler(ctx, instance)
	}
	if c.metrics != nil {
		c.metrics.PhaseHandled(params.displayName, name, time.Since(start), err)
	}
	return err
}
