// Package manager defines the opaque external collaborator that owns a
// component.Context. The core never calls into it — it only threads the
// reference through so components can reach their owner via
// Context.GetManager(), matching the teacher's own minimal-interface style
// of naming only the methods actually needed (here, none).
package manager

// Manager is an opaque marker interface. The component container stores
// and returns a Manager unexamined; callers type-assert it back to their
// own concrete manager type inside a factory.
type Manager interface{}
