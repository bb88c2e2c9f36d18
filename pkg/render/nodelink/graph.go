package nodelink

import (
	"cmp"
	"slices"
)

// Node is one box of the diagram.
type Node struct {
	ID     string
	Label  string
	Weight float64
	// Root marks the node the graph was built around.
	Root bool
	Meta map[string]string
}

// Edge is a directed, weighted arrow.
type Edge struct {
	From   string
	To     string
	Weight float64
}

// Graph is a small directed graph. Nodes and edges keep insertion order.
type Graph struct {
	nodes []Node
	index map[string]int
	edges []Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: map[string]int{}}
}

// AddNode adds n, or replaces the node with the same ID.
func (g *Graph) AddNode(n Node) {
	if i, ok := g.index[n.ID]; ok {
		g.nodes[i] = n
		return
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// AddEdge adds e, creating missing endpoints with their ID as label.
// Weights of repeated edges accumulate.
func (g *Graph) AddEdge(e Edge) {
	for _, id := range []string{e.From, e.To} {
		if _, ok := g.index[id]; !ok {
			g.AddNode(Node{ID: id, Label: id})
		}
	}
	for i := range g.edges {
		if g.edges[i].From == e.From && g.edges[i].To == e.To {
			g.edges[i].Weight += e.Weight
			return
		}
	}
	g.edges = append(g.edges, e)
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Prune keeps the limit heaviest edges, ties broken by endpoints, and drops
// nodes left without edges unless they are roots. limit <= 0 keeps all.
func (g *Graph) Prune(limit int) *Graph {
	edges := slices.Clone(g.edges)
	slices.SortStableFunc(edges, func(a, b Edge) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})
	if limit > 0 && len(edges) > limit {
		edges = edges[:limit]
	}

	used := map[string]bool{}
	for _, e := range edges {
		used[e.From], used[e.To] = true, true
	}

	out := New()
	for _, n := range g.nodes {
		if n.Root || used[n.ID] {
			out.AddNode(n)
		}
	}
	for _, e := range edges {
		out.AddEdge(e)
	}
	return out
}
