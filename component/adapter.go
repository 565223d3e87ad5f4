package component

import "context"

// LifecycleFuncs are the optional phase hooks an adapter runs. A nil hook
// is a no-op in that phase.
type LifecycleFuncs struct {
	OnLoaded   func(ctx context.Context) error
	OnStopping func(ctx context.Context) error
	OnClear    func(ctx context.Context) error
}

// adapter wraps a delegate value with a set of lifecycle hooks, so a value
// that doesn't (and needn't) implement LoadedNotifiable, StoppingNotifiable,
// or Clearable itself can still participate in every phase.
type adapter[T any] struct {
	delegate T
	hooks    LifecycleFuncs
}

// NewAdapter wraps delegate with hooks and returns a Factory ready to pass
// to AddComponent/AddComponents. Useful for wiring a value constructed
// outside the container — an *http.Server, a driver connection pool — into
// the phase driver without modifying its type.
//
// Example:
//
//	srv := &http.Server{Addr: ":8080"}
//	factories["http"] = component.NewAdapter(srv, component.LifecycleFuncs{
//	    OnLoaded:   func(ctx context.Context) error { go srv.ListenAndServe(); return nil },
//	    OnStopping: func(ctx context.Context) error { return srv.Shutdown(ctx) },
//	})
func NewAdapter[T any](delegate T, hooks LifecycleFuncs) Factory {
	return func(ctx context.Context, c *Context) (any, error) {
		return &adapter[T]{delegate: delegate, hooks: hooks}, nil
	}
}

func (a *adapter[T]) OnAllComponentsLoaded(ctx context.Context) error {
	if a.hooks.OnLoaded == nil {
		return nil
	}
	return a.hooks.OnLoaded(ctx)
}

func (a *adapter[T]) OnAllComponentsAreStopping(ctx context.Context) error {
	if a.hooks.OnStopping == nil {
		return nil
	}
	return a.hooks.OnStopping(ctx)
}

func (a *adapter[T]) ClearComponent(ctx context.Context) error {
	if a.hooks.OnClear == nil {
		return nil
	}
	return a.hooks.OnClear(ctx)
}
