package component

import (
	"fmt"
	"os"
	"sort"
)

// GraphNode represents a node in the dependency graph.
type GraphNode struct {
	ID string `json:"id"`
}

// GraphEdge represents an edge between two nodes in the dependency graph.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the complete dependency graph discovered during construction:
// one node per declared component, one edge per it_depends_on lookup
// observed so far.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Dependencies returns, for every declared component, the set of
// components it looked up during its own construction. Safe to call at
// any point after construction begins, including concurrently with
// AddComponent/FindComponent calls still in flight.
func (c *Context) Dependencies() map[string][]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string][]string, len(c.infos))
	for name, inf := range c.infos {
		var deps []string
		inf.ForEachItDependsOn(func(n string) { deps = append(deps, n) })
		sort.Strings(deps)
		out[name] = deps
	}
	return out
}

// BuildGraph snapshots Dependencies into a Graph ready for ToDOT.
func (c *Context) BuildGraph() Graph {
	dependencies := c.Dependencies()

	names := make([]string, 0, len(dependencies))
	for name := range dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	graph := Graph{
		Nodes: make([]GraphNode, 0, len(names)),
		Edges: make([]GraphEdge, 0),
	}
	for _, name := range names {
		graph.Nodes = append(graph.Nodes, GraphNode{ID: name})
		for _, dep := range dependencies[name] {
			graph.Edges = append(graph.Edges, GraphEdge{From: name, To: dep})
		}
	}
	return graph
}

// ToDOT converts the graph to Graphviz DOT format.
func (g Graph) ToDOT() string {
	var result string
	result += "digraph components {\n"
	result += "  rankdir=TB;\n\n"

	for _, node := range g.Nodes {
		result += fmt.Sprintf("  %q [label=%q, shape=box];\n", node.ID, node.ID)
	}

	result += "\n"

	for _, edge := range g.Edges {
		result += fmt.Sprintf("  %q -> %q;\n", edge.From, edge.To)
	}

	result += "}\n"
	return result
}

// writeGraphToFile writes the dependency graph to graphOutputFile in DOT
// format. A no-op if WithGraphOutput was never set. Run once, at the end
// of ClearComponents, once the graph can no longer change.
func (c *Context) writeGraphToFile(path string) error {
	if path == "" {
		return nil
	}

	dotContent := c.BuildGraph().ToDOT()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create graph output file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(dotContent); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}

	return nil
}
