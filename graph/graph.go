// Package graph implements the undirected primal graph used by the
// variable-order heuristics (spec.md §4.2) and the descending integer Label
// used by the lexicographic BFS heuristics (spec.md §4.3).
//
// Grounded on the Graph and Label classes of
// original_source/addmc/src/logic.cc. The original backs its vertex and
// adjacency sets with std::set<Int>/std::map<Int,...>, whose iteration order
// is ascending by vertex id; several heuristics rely on that order to make
// their tie-breaking rules ("first-encountered iteration order") well
// defined. This module's intset.Set always hands out that ascending order,
// so the heuristics built on top of Graph get it for free.
package graph

import (
	"fmt"

	"github.com/crillab/gophercount/intset"
)

// ErrEmptyGraph is returned by MinFillVertex when the graph has no vertices.
var ErrEmptyGraph = fmt.Errorf("graph: no vertex")

// Graph is an undirected graph over integer vertices.
type Graph struct {
	vertices *intset.Set
	adj      map[int]*intset.Set
}

// New builds a graph whose vertex set is exactly vs, with no edges.
func New(vs []int) *Graph {
	g := &Graph{
		vertices: intset.New(),
		adj:      make(map[int]*intset.Set, len(vs)),
	}
	for _, v := range vs {
		g.vertices.Add(v)
		g.adj[v] = intset.New()
	}
	return g
}

// Vertices returns the graph's vertices in ascending order.
func (g *Graph) Vertices() []int {
	return g.vertices.Sorted()
}

// Len returns the number of vertices remaining in the graph.
func (g *Graph) Len() int {
	return g.vertices.Len()
}

// Neighbors returns v's neighbours in ascending order.
func (g *Graph) Neighbors(v int) []int {
	return g.adj[v].Sorted()
}

// AddEdge inserts an edge between u and v. Idempotent.
func (g *Graph) AddEdge(u, v int) {
	g.adj[u].Add(v)
	g.adj[v].Add(u)
}

// IsNeighbor reports whether v is adjacent to u.
func (g *Graph) IsNeighbor(u, v int) bool {
	return g.adj[u].Contains(v)
}

// RemoveVertex removes v from the graph and from every neighbour's
// adjacency.
func (g *Graph) RemoveVertex(v int) {
	g.vertices.Delete(v)
	for _, n := range g.adj[v].Sorted() {
		g.adj[n].Delete(v)
	}
	delete(g.adj, v)
}

// FillInEdges ensures an edge exists between every unordered pair of v's
// neighbours.
func (g *Graph) FillInEdges(v int) {
	neighbors := g.Neighbors(v)
	for i := 0; i < len(neighbors); i++ {
		for j := i + 1; j < len(neighbors); j++ {
			g.AddEdge(neighbors[i], neighbors[j])
		}
	}
}

// CountFillInEdges returns the number of unordered pairs of v's neighbours
// that are not already adjacent (the "fill-in" count of v).
func (g *Graph) CountFillInEdges(v int) int {
	neighbors := g.Neighbors(v)
	count := 0
	for i := 0; i < len(neighbors); i++ {
		for j := i + 1; j < len(neighbors); j++ {
			if !g.IsNeighbor(neighbors[i], neighbors[j]) {
				count++
			}
		}
	}
	return count
}

// MinFillVertex returns the vertex minimising CountFillInEdges, ties broken
// by ascending vertex id (the smallest vertex encountered first when
// scanning in sorted order). Returns ErrEmptyGraph if the graph has no
// vertices.
func (g *Graph) MinFillVertex() (int, error) {
	vertices := g.Vertices()
	if len(vertices) == 0 {
		return 0, ErrEmptyGraph
	}
	best := vertices[0]
	bestCount := g.CountFillInEdges(best)
	for _, v := range vertices[1:] {
		if c := g.CountFillInEdges(v); c < bestCount {
			bestCount = c
			best = v
		}
	}
	return best, nil
}

// HasPath reports whether w is reachable from u via a depth-first search of
// the current graph. The visited set is local to this call, matching the
// original's recursive Graph::hasPath.
func (g *Graph) HasPath(u, w int) bool {
	visited := make(map[int]bool)
	return g.hasPath(u, w, visited)
}

func (g *Graph) hasPath(from, to int, visited map[int]bool) bool {
	if from == to {
		return true
	}
	visited[from] = true
	for _, n := range g.Neighbors(from) {
		if visited[n] {
			continue
		}
		if g.hasPath(n, to, visited) {
			return true
		}
	}
	return false
}
