package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fibercore/component"
	"github.com/fibercore/component/taskproc"

	"github.com/ognick/goscade/example/internal/components"
	"github.com/ognick/goscade/example/internal/domain"
)

// logger matches the shape component.WithLogger expects, since newGraph
// threads it straight through to component.New.
type logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// graphStatus mirrors the phase a demo graph's container has reached,
// since *component.Context exposes per-component stages but no single
// overall status of its own.
type graphStatus string

const (
	graphIdle    graphStatus = "idle"
	graphLoading graphStatus = "loading"
	graphReady   graphStatus = "ready"
	graphStopped graphStatus = "stopped"
)

type graph struct {
	mu       sync.Mutex
	ctx      *component.Context
	observer *components.Observer
	status   graphStatus
}

func newGraph(log logger, graphOutputDir string) *graph {
	observer := components.NewObserver(components.Names())

	var graphOutput string
	if graphOutputDir != "" {
		graphOutput = filepath.Join(graphOutputDir, "graph.dot")
	}

	ctx := component.New(context.Background(), nil, components.Names(),
		component.WithLogger(log),
		component.WithProgressInterval(2*time.Second),
		component.WithGraphOutput(graphOutput),
		component.WithTaskProcessors(taskproc.Registry{
			components.WorkerTaskProcessorName: taskproc.NewPool(components.WorkerTaskProcessorName, 4),
		}),
	)

	return &graph{
		ctx:      ctx,
		observer: observer,
		status:   graphIdle,
	}
}

type Usecase struct {
	idToGraph      map[string]*graph
	mu             sync.Mutex
	log            logger
	graphOutputDir string
}

func NewUsecase(log logger, graphOutputDir string) *Usecase {
	return &Usecase{
		idToGraph:      make(map[string]*graph),
		log:            log,
		graphOutputDir: graphOutputDir,
	}
}

func (u *Usecase) acquireGraph(id string, renewIfFinished bool) *graph {
	u.mu.Lock()
	defer u.mu.Unlock()

	g, ok := u.idToGraph[id]
	if ok {
		g.mu.Lock()
		stopped := g.status == graphStopped
		g.mu.Unlock()
		if !stopped || !renewIfFinished {
			return g
		}
	}

	g = newGraph(u.log, u.graphOutputDir)
	u.idToGraph[id] = g
	return g
}

func (u *Usecase) Graph(_ context.Context, graphID string) (domain.Graph, error) {
	g := u.acquireGraph(graphID, false)

	deps := g.ctx.Dependencies()
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	comps := make([]domain.Component, 0, len(names))
	for _, name := range names {
		cfg := g.observer.GetCfg(name)
		comps = append(comps, domain.Component{
			ID:        name,
			Name:      name,
			DependsOn: deps[name],
			Status:    string(g.observer.GetStatus(name)),
			Error:     cfg.Err,
			Delay:     cfg.Delay,
		})
	}

	g.mu.Lock()
	status := g.status
	g.mu.Unlock()

	return domain.Graph{
		ID:         graphID,
		Components: comps,
		Status:     string(status),
	}, nil
}

func (u *Usecase) GraphDOT(_ context.Context, graphID string) string {
	g := u.acquireGraph(graphID, false)
	return g.ctx.BuildGraph().ToDOT()
}

func (u *Usecase) StartAll(ctx context.Context, graphID string) error {
	g := u.acquireGraph(graphID, true)

	g.mu.Lock()
	if g.status != graphIdle && g.status != graphStopped {
		status := g.status
		g.mu.Unlock()
		return fmt.Errorf("graph %s has status %s", graphID, status)
	}
	g.status = graphLoading
	g.mu.Unlock()

	g.observer.SetCancel(func() { g.ctx.CancelComponentsLoad() })

	if err := g.ctx.AddComponents(ctx, components.Factories(g.observer)); err != nil {
		g.mu.Lock()
		g.status = graphStopped
		g.mu.Unlock()
		return fmt.Errorf("graph %s: load components: %w", graphID, err)
	}

	if err := g.ctx.OnAllComponentsLoaded(ctx); err != nil {
		u.log.Errorf("graph %s: OnAllComponentsLoaded: %v", graphID, err)
	}

	g.mu.Lock()
	g.status = graphReady
	g.mu.Unlock()

	u.log.Infof("graph %s is ready", graphID)
	return nil
}

func (u *Usecase) StopAll(ctx context.Context, graphID string) error {
	g := u.acquireGraph(graphID, false)

	g.mu.Lock()
	if g.status != graphReady {
		status := g.status
		g.mu.Unlock()
		return fmt.Errorf("graph %s has status %s", graphID, status)
	}
	g.mu.Unlock()

	if err := g.ctx.OnAllComponentsAreStopping(ctx); err != nil {
		u.log.Errorf("graph %s: OnAllComponentsAreStopping: %v", graphID, err)
	}
	if err := g.ctx.ClearComponents(ctx); err != nil {
		u.log.Errorf("graph %s: ClearComponents: %v", graphID, err)
	}

	g.mu.Lock()
	g.status = graphStopped
	g.mu.Unlock()

	return nil
}

func (u *Usecase) UpdateComponent(_ context.Context, graphID, compID string, delay time.Duration, errMsg *string) error {
	g := u.acquireGraph(graphID, false)
	return g.observer.UpdateComponent(compID, components.Cfg{Err: errMsg, Delay: delay})
}

func (u *Usecase) KillComponent(_ context.Context, graphID, compID string) error {
	g := u.acquireGraph(graphID, false)
	return g.observer.KillComponent(compID)
}
