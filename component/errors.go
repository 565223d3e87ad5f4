package component

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the kinds spec'd in the container's error taxonomy.
// Callers classify with errors.Is; wrapped occurrences still match.
var (
	// ErrUnknownComponent is returned by AddComponent/FindComponent when
	// name is outside the set declared at construction.
	ErrUnknownComponent = errors.New("component: unknown component")

	// ErrDuplicateComponent is returned by a second AddComponent call (or
	// internally, a second SetComponent) for the same name.
	ErrDuplicateComponent = errors.New("component: duplicate component")

	// ErrNestedComponentConstruction is returned by AddComponent when the
	// calling fiber is already constructing another component.
	ErrNestedComponentConstruction = errors.New("component: nested component construction")

	// ErrLookupOutsideConstruction is returned by FindComponent when the
	// calling fiber is not currently running a factory.
	ErrLookupOutsideConstruction = errors.New("component: lookup outside construction")

	// ErrStageSwitchingCancelled is returned by blocked waiters once
	// cancellation (load or phase) has been observed.
	ErrStageSwitchingCancelled = errors.New("component: stage switching cancelled")

	// ErrComponentConstructionFailed wraps a factory's returned error.
	ErrComponentConstructionFailed = errors.New("component: component construction failed")

	// ErrProtocolViolation is raised by the phase driver when a phase ends
	// cancelled but every error observed was itself a cancellation — a
	// real error was swallowed somewhere and never surfaced.
	ErrProtocolViolation = errors.New("component: protocol violation: cancelled phase produced no error")

	// ErrTypeMismatch is returned by Lookup when a component exists under
	// the given name but is not assignable to the requested type.
	ErrTypeMismatch = errors.New("component: type mismatch")
)

// CircularDependencyError is returned by FindComponent when installing the
// implicit edge `from -> to` would close a cycle. Path lists the full
// cycle for diagnostics, starting at the component making the lookup, e.g.
// []string{"B", "A", "B"}.
type CircularDependencyError struct {
	From string
	To   string
	Path []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("component: circular dependency detected: %s", strings.Join(e.Path, " -> "))
}
