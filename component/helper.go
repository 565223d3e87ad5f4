package component

import (
	"context"
	"fmt"
)

// Lookup is a type-safe wrapper around FindComponent: it looks up name and
// asserts the result is a T, sparing callers the cast a raw FindComponent
// call would otherwise require.
//
// Example:
//
//	db, err := component.Lookup[*sql.DB](ctx, c, "database")
func Lookup[T any](ctx context.Context, c *Context, name string) (T, error) {
	var zero T
	raw, err := c.FindComponent(ctx, name)
	if err != nil {
		return zero, err
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("component %q: %w: got %T, want %T", name, ErrTypeMismatch, raw, zero)
	}
	return typed, nil
}

// TypedFactory adapts a constructor that already knows its own return type
// into the Factory shape AddComponent/AddComponents expect.
//
// Example:
//
//	factories["database"] = component.TypedFactory(newDatabase)
func TypedFactory[T any](build func(ctx context.Context, c *Context) (T, error)) Factory {
	return func(ctx context.Context, c *Context) (any, error) {
		return build(ctx, c)
	}
}
