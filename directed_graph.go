package pcfg

import (
	"sort"
)

// DirectedGraph represents a directed graph over grammar symbols. Arcs carry
// the score of the unary rule they were built from
type DirectedGraph struct {
	Arcs     map[string]map[string]float64
	Vertices map[string]bool
}

// NewDirectedGraph creates a new DirectedGraph
func NewDirectedGraph() *DirectedGraph {
	return &DirectedGraph{
		Arcs:     map[string]map[string]float64{},
		Vertices: map[string]bool{},
	}
}

// Add adds an arc into graph
func (g *DirectedGraph) Add(s, t string, weight float64) {
	if g.Arcs[s] == nil {
		g.Arcs[s] = map[string]float64{}
	}
	g.Arcs[s][t] = weight
	g.Vertices[s] = true
	g.Vertices[t] = true
}

// HasArc returns whether arc (s, t) exists in this graph
func (g *DirectedGraph) HasArc(s, t string) bool {
	_, ok := g.Arcs[s][t]
	return ok
}

// sortedVertices returns the vertices in lexical order so that traversals
// are reproducible
func (g *DirectedGraph) sortedVertices() []string {
	vertices := make([]string, 0, len(g.Vertices))
	for v := range g.Vertices {
		vertices = append(vertices, v)
	}
	sort.Strings(vertices)
	return vertices
}

func (g *DirectedGraph) successors(s string) []string {
	next := make([]string, 0, len(g.Arcs[s]))
	for t := range g.Arcs[s] {
		next = append(next, t)
	}
	sort.Strings(next)
	return next
}

// DFS runs depth-first search on graph and returns the vertices visited by
// deep-first order.
// It will not visit the vertices where visited[V] == true.
// After finished, it will update the visited map
func (g *DirectedGraph) DFS(s string, visited map[string]bool) []string {
	if visited[s] || !g.Vertices[s] {
		return []string{}
	}
	visited[s] = true

	order := []string{s}
	for _, next := range g.successors(s) {
		order = append(order, g.DFS(next, visited)...)
	}
	return order
}

// finishOrder appends the vertices reachable from s in order of DFS
// completion
func (g *DirectedGraph) finishOrder(s string, visited map[string]bool, order []string) []string {
	visited[s] = true
	for _, next := range g.successors(s) {
		if !visited[next] {
			order = g.finishOrder(next, visited, order)
		}
	}
	return append(order, s)
}

// TopologicalSort sorts the graph by topological order. For cyclic graphs
// it returns the vertices by decreasing DFS finish time
func (g *DirectedGraph) TopologicalSort() []string {
	visited := map[string]bool{}
	finished := []string{}
	for _, v := range g.sortedVertices() {
		if !visited[v] {
			finished = g.finishOrder(v, visited, finished)
		}
	}
	for i, j := 0, len(finished)-1; i < j; i, j = i+1, j-1 {
		finished[i], finished[j] = finished[j], finished[i]
	}
	return finished
}

// Transpose returns the reversed graph of g
func (g *DirectedGraph) Transpose() *DirectedGraph {
	reversed := NewDirectedGraph()
	for v := range g.Vertices {
		reversed.Vertices[v] = true
	}
	for s, targets := range g.Arcs {
		for t, weight := range targets {
			reversed.Add(t, s, weight)
		}
	}
	return reversed
}

// StrongComponents find strong connected components with more than one
// vertex using Kosaraju's algorithm
func (g *DirectedGraph) StrongComponents() [][]string {
	visited := map[string]bool{}
	components := [][]string{}
	gt := g.Transpose()
	for _, v := range g.TopologicalSort() {
		if visited[v] {
			continue
		}

		component := gt.DFS(v, visited)
		if len(component) <= 1 {
			continue
		}
		sort.Strings(component)
		components = append(components, component)
	}
	return components
}
