package component

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibercore/component/fiber"
)

func TestDependencies_ReflectsObservedLookups(t *testing.T) {
	c := New(context.Background(), nil, []string{"a", "b"}, WithRuntime(fiber.NewGoroutineRuntime()))

	factoryB := func(ctx context.Context, c *Context) (any, error) {
		return c.FindComponent(ctx, "a")
	}
	require.NoError(t, c.AddComponents(context.Background(), map[string]Factory{
		"a": staticFactory("x"),
		"b": factoryB,
	}))

	deps := c.Dependencies()
	assert.Equal(t, []string{"a"}, deps["b"])
	assert.Empty(t, deps["a"])
}

func TestBuildGraph_ProducesOneEdgePerDependency(t *testing.T) {
	c := New(context.Background(), nil, []string{"a", "b"}, WithRuntime(fiber.NewGoroutineRuntime()))

	factoryB := func(ctx context.Context, c *Context) (any, error) {
		return c.FindComponent(ctx, "a")
	}
	require.NoError(t, c.AddComponents(context.Background(), map[string]Factory{
		"a": staticFactory("x"),
		"b": factoryB,
	}))

	g := c.BuildGraph()
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, GraphEdge{From: "b", To: "a"}, g.Edges[0])
}

func TestToDOT_ProducesParsableDigraph(t *testing.T) {
	g := Graph{
		Nodes: []GraphNode{{ID: "a"}, {ID: "b"}},
		Edges: []GraphEdge{{From: "b", To: "a"}},
	}
	dot := g.ToDOT()
	assert.Contains(t, dot, "digraph components {")
	assert.Contains(t, dot, `"a" [label="a", shape=box];`)
	assert.Contains(t, dot, `"b" -> "a";`)
}

func TestClearComponents_WritesGraphFileWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.dot")

	c := New(context.Background(), nil, []string{"a"},
		WithRuntime(fiber.NewGoroutineRuntime()),
		WithGraphOutput(path),
	)
	require.NoError(t, c.AddComponents(context.Background(), map[string]Factory{"a": staticFactory("x")}))
	require.NoError(t, c.OnAllComponentsLoaded(context.Background()))
	require.NoError(t, c.OnAllComponentsAreStopping(context.Background()))
	require.NoError(t, c.ClearComponents(context.Background()))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "digraph components")
}

func TestWriteGraphToFile_NoopWithoutConfiguredPath(t *testing.T) {
	c := New(context.Background(), nil, []string{"a"}, WithRuntime(fiber.NewGoroutineRuntime()))
	assert.NoError(t, c.writeGraphToFile(""))
}
