package pcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectedGraphDFS(t *testing.T) {
	g := NewDirectedGraph()
	g.Add("a", "c", 1)
	g.Add("a", "b", 1)
	g.Add("b", "d", 1)
	g.Add("c", "d", 1)

	assert.True(t, g.HasArc("a", "b"))
	assert.False(t, g.HasArc("b", "a"))
	assert.Equal(t, []string{"a", "b", "d", "c"}, g.DFS("a", map[string]bool{}))
	assert.Equal(t, []string{"a", "b", "c", "d"}, g.sortedVertices())

	visited := map[string]bool{"b": true}
	assert.Equal(t, []string{"a", "c", "d"}, g.DFS("a", visited))
	assert.Empty(t, g.DFS("missing", visited))
}

func TestDirectedGraphTopologicalSort(t *testing.T) {
	g := NewDirectedGraph()
	g.Add("shirt", "tie", 1)
	g.Add("tie", "jacket", 1)
	g.Add("trousers", "shoes", 1)
	g.Add("trousers", "belt", 1)
	g.Add("belt", "jacket", 1)

	order := g.TopologicalSort()
	assert.Len(t, order, 6)
	position := map[string]int{}
	for i, v := range order {
		position[v] = i
	}
	for s, targets := range g.Arcs {
		for target := range targets {
			assert.Less(t, position[s], position[target], "%s -> %s", s, target)
		}
	}
}

func TestDirectedGraphStrongComponents(t *testing.T) {
	g := NewDirectedGraph()
	g.Add("a", "b", 1)
	g.Add("b", "c", 1)
	g.Add("c", "a", 1)
	g.Add("c", "d", 1)
	g.Add("d", "e", 1)
	g.Add("e", "d", 1)
	g.Add("e", "f", 1)

	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e"}}, g.StrongComponents())

	transposed := g.Transpose()
	assert.True(t, transposed.HasArc("b", "a"))
	assert.Len(t, transposed.Vertices, 6)
}
