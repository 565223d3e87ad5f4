package component

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fibercore/component/fiber"
)

func newTestGraph(names ...string) *Context {
	rt := fiber.NewGoroutineRuntime()
	c := &Context{rt: rt, mu: rt.NewMutex(), infos: make(map[string]*info, len(names))}
	for _, name := range names {
		c.infos[name] = newInfo(name, rt.NewCond(c.mu))
	}
	return c
}

func link(c *Context, from, to string) {
	c.infos[from].AddItDependsOn(to)
	c.infos[to].AddDependsOnIt(from)
}

func TestWouldCycle_NoExistingEdgesIsNeverACycle(t *testing.T) {
	c := newTestGraph("a", "b", "c")
	_, cyclic := c.wouldCycle("a", "b")
	assert.False(t, cyclic)
}

func TestWouldCycle_SelfLookupIsAlwaysACycle(t *testing.T) {
	c := newTestGraph("a")
	path, cyclic := c.wouldCycle("a", "a")
	assert.True(t, cyclic)
	assert.Equal(t, []string{"a", "a", "a"}, path)
}

// TestWouldCycle_TwoNodeCycle: b already depends on a (b->a). Proposing
// a->b would close the loop a -> b -> a.
func TestWouldCycle_TwoNodeCycle(t *testing.T) {
	c := newTestGraph("a", "b")
	link(c, "b", "a")

	path, cyclic := c.wouldCycle("a", "b")
	assert.True(t, cyclic)
	assert.Equal(t, []string{"a", "b", "a"}, path)
}

// TestWouldCycle_ThreeNodeCycle: existing edges a->b, b->c. Proposing c->a
// would close the loop c -> a -> b -> c.
func TestWouldCycle_ThreeNodeCycle(t *testing.T) {
	c := newTestGraph("a", "b", "c")
	link(c, "a", "b")
	link(c, "b", "c")

	path, cyclic := c.wouldCycle("c", "a")
	assert.True(t, cyclic)
	assert.Equal(t, []string{"c", "a", "b", "c"}, path)
}

func TestWouldCycle_UnrelatedBranchIsNotACycle(t *testing.T) {
	c := newTestGraph("a", "b", "c", "d")
	link(c, "a", "b")
	link(c, "c", "d")

	_, cyclic := c.wouldCycle("d", "a")
	assert.False(t, cyclic)
}
