// Package components declares the demo dependency graph driven by the
// HTTP API: a small web/cache/queue/service topology whose edges are
// discovered the same way any real caller's would be, by each
// component's factory looking up the names it needs while it builds.
package components

import (
	"context"
	"fmt"
	"time"

	"github.com/fibercore/component"
)

// Deps lists, for every named component in the demo graph, the other
// names its factory will look up while constructing. The container
// never reads this map; it exists only so this package knows which
// FindComponent calls to make. The real dependency edges are recorded
// by the container from those lookups, not from this table.
var Deps = map[string][]string{
	"webserver":    nil,
	"redis":        nil,
	"postgres":     nil,
	"kafka":        nil,
	"cache":        {"redis"},
	"listener":     {"kafka"},
	"bookrepo":     {"cache", "listener"},
	"userrepo":     {"postgres"},
	"bookapi":      {"webserver"},
	"userapi":      {"listener"},
	"bookservice":  {"bookapi", "bookrepo"},
	"userservice":  {"userapi", "userrepo", "bookservice"},
	"worker":       {"userservice"},
}

// Names returns the declared component names in a stable order.
func Names() []string {
	return []string{
		"webserver", "redis", "postgres", "kafka",
		"cache", "listener",
		"bookrepo", "userrepo",
		"bookapi", "userapi",
		"bookservice", "userservice",
		"worker",
	}
}

// WorkerTaskProcessorName is the taskproc.Registry entry the "worker"
// component submits its demo background job to.
const WorkerTaskProcessorName = "jobs"

func errUnknownComponent(name string) error {
	return fmt.Errorf("components: unknown component %q", name)
}

// simulated is what every demo component actually builds into: an
// inert handle that reports its own stage transitions to the shared
// Observer so the HTTP API can show them.
type simulated struct {
	name     string
	observer *Observer
}

func (s *simulated) OnAllComponentsLoaded(context.Context) error {
	s.observer.setStatus(s.name, StatusRunning)
	return nil
}

func (s *simulated) OnAllComponentsAreStopping(context.Context) error {
	s.observer.setStatus(s.name, StatusStopping)
	return nil
}

func (s *simulated) ClearComponent(context.Context) error {
	s.observer.setStatus(s.name, StatusStopped)
	return nil
}

// Factory builds the component.Factory for a named node: it looks up
// every dependency listed for that name in Deps (causing the container
// to record the corresponding edges), then simulates the configured
// construction delay or failure before handing back a *simulated.
func Factory(observer *Observer, name string) component.Factory {
	return func(ctx context.Context, c *component.Context) (any, error) {
		for _, dep := range Deps[name] {
			if _, err := c.FindComponent(ctx, dep); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}

		observer.setStatus(name, StatusConstructing)
		cfg := observer.GetCfg(name)

		select {
		case <-time.After(cfg.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if cfg.Err != nil {
			observer.setStatus(name, StatusFailed)
			return nil, fmt.Errorf("%s: %s", name, *cfg.Err)
		}

		return &simulated{name: name, observer: observer}, nil
	}
}

// workerFactory builds the "worker" node: after its one dependency is
// built, it fetches the registered "jobs" task processor and submits a
// single demo background job, exercising the container's task-processor
// registry the same way a real background-job component would.
func workerFactory(observer *Observer, name string) component.Factory {
	return func(ctx context.Context, c *component.Context) (any, error) {
		for _, dep := range Deps[name] {
			if _, err := c.FindComponent(ctx, dep); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}

		proc, err := c.GetTaskProcessor(WorkerTaskProcessorName)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if err := proc.Submit(ctx, func(ctx context.Context) error {
			observer.setStatus(name, StatusRunning)
			return nil
		}); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		return &simulated{name: name, observer: observer}, nil
	}
}

// Factories builds the full factory map for AddComponents, one entry
// per name declared in Deps.
func Factories(observer *Observer) map[string]component.Factory {
	factories := make(map[string]component.Factory, len(Deps))
	for name := range Deps {
		if name == "worker" {
			factories[name] = workerFactory(observer, name)
			continue
		}
		factories[name] = Factory(observer, name)
	}
	return factories
}
