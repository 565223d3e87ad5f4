package component

import (
	"context"

	"github.com/fibercore/component/fiber"
)

// info is the per-component coordination point: the instance slot, the
// current lifecycle stage, and the implicit dependency edges discovered
// while the component (or one of its peers) was under construction.
//
// info has no mutex of its own. Every field is protected by the
// Context's single container mutex, exactly as spec'd — callers must hold
// it before touching an info, with the single exception that
// WaitAndGetComponent/WaitStage release it for the duration of the wait
// (via cond.Wait) and reacquire it before returning, the same discipline
// sync.Cond imposes on its callers.
type info struct {
	name string
	cond fiber.Cond

	instance any
	built    bool

	stage                   Stage
	stageSwitchingCancelled bool

	itDependsOn map[string]struct{}
	dependsOnIt map[string]struct{}
}

func newInfo(name string, cond fiber.Cond) *info {
	return &info{
		name:        name,
		cond:        cond,
		itDependsOn: make(map[string]struct{}),
		dependsOnIt: make(map[string]struct{}),
	}
}

// SetComponent stores the constructed instance. A second call is a
// programming error: it returns ErrDuplicateComponent rather than
// overwriting the stable, already-published pointer.
func (i *info) SetComponent(instance any) error {
	if i.built {
		return ErrDuplicateComponent
	}
	i.instance = instance
	i.built = true
	i.stage = StageCreateCalled
	i.cond.Broadcast()
	return nil
}

// GetComponent is a non-blocking peek at the instance slot.
func (i *info) GetComponent() (any, bool) {
	return i.instance, i.built
}

// WaitAndGetComponent blocks until the slot is populated or cancellation
// is observed.
func (i *info) WaitAndGetComponent(ctx context.Context) (any, error) {
	for !i.built && !i.stageSwitchingCancelled {
		if err := i.cond.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if !i.built {
		return nil, ErrStageSwitchingCancelled
	}
	return i.instance, nil
}

// WaitStage blocks until the stage reaches target or cancellation is
// observed. label identifies the phase for diagnostics in the caller.
func (i *info) WaitStage(ctx context.Context, target Stage, label string) error {
	for i.stage != target && !i.stageSwitchingCancelled {
		if err := i.cond.Wait(ctx); err != nil {
			return err
		}
	}
	if i.stage != target {
		return ErrStageSwitchingCancelled
	}
	return nil
}

// SetStage updates the stage and wakes every waiter. Must be called under
// the container mutex.
func (i *info) SetStage(stage Stage) {
	i.stage = stage
	i.cond.Broadcast()
}

// ForEachItDependsOn iterates the set of components this one looked up
// during construction. f must not re-enter this info.
func (i *info) ForEachItDependsOn(f func(name string)) {
	for name := range i.itDependsOn {
		f(name)
	}
}

// ForEachDependsOnIt iterates the set of components that looked this one
// up during their own construction. f must not re-enter this info.
func (i *info) ForEachDependsOnIt(f func(name string)) {
	for name := range i.dependsOnIt {
		f(name)
	}
}

func (i *info) AddItDependsOn(name string) { i.itDependsOn[name] = struct{}{} }
func (i *info) AddDependsOnIt(name string) { i.dependsOnIt[name] = struct{}{} }

func (i *info) CheckItDependsOn(name string) bool {
	_, ok := i.itDependsOn[name]
	return ok
}

// onLoadingCancelled marks this component cancelled and wakes every
// waiter blocked in WaitAndGetComponent or WaitStage.
func (i *info) onLoadingCancelled() {
	i.stageSwitchingCancelled = true
	i.cond.Broadcast()
}

// resetForClear clears cancellation bookkeeping at the start of every
// phase, so each phase starts from a clean slate (spec §4.4 step 1).
func (i *info) resetForClear() {
	i.stageSwitchingCancelled = false
}
