package graph

import "testing"

func buildS5() *Graph {
	g := New([]int{1, 2, 3, 4})
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 3)
	g.AddEdge(3, 4)
	return g
}

// TestCountFillInEdges exercises the triangle-plus-pendant graph
// ({1,2,3} a triangle, 4 pendant off 3). Vertex 3's two non-triangle
// neighbour pairs (1,4) and (2,4) both need filling in, so its count is 2;
// every other vertex's neighbours are already pairwise adjacent (or it has
// fewer than two neighbours), so their count is 0.
func TestCountFillInEdges(t *testing.T) {
	g := buildS5()
	want := map[int]int{1: 0, 2: 0, 3: 2, 4: 0}
	for v, w := range want {
		if got := g.CountFillInEdges(v); got != w {
			t.Errorf("CountFillInEdges(%d) = %d, want %d", v, got, w)
		}
	}
}

func TestMinFillVertexTieBreak(t *testing.T) {
	g := buildS5()
	v, err := g.MinFillVertex()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Errorf("MinFillVertex() = %d, want 1 (smallest vertex among the zero-fill-in tie)", v)
	}
}

func TestMinFillVertexEmptyGraph(t *testing.T) {
	g := New(nil)
	if _, err := g.MinFillVertex(); err != ErrEmptyGraph {
		t.Errorf("expected ErrEmptyGraph, got %v", err)
	}
}

func TestFillInEdgesThenRemoveVertex(t *testing.T) {
	g := buildS5()
	g.FillInEdges(3)
	if !g.IsNeighbor(1, 4) {
		t.Errorf("expected fill-in edge between 1 and 4 after eliminating 3")
	}
	g.RemoveVertex(3)
	if g.Len() != 3 {
		t.Errorf("expected 3 vertices after removal, got %d", g.Len())
	}
	if g.IsNeighbor(1, 3) {
		t.Errorf("expected no residual adjacency to removed vertex")
	}
}

func TestHasPath(t *testing.T) {
	g := New([]int{1, 2, 3, 4})
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	if !g.HasPath(1, 3) {
		t.Errorf("expected a path from 1 to 3")
	}
	if g.HasPath(1, 4) {
		t.Errorf("expected no path from 1 to 4")
	}
}

func TestVerticesSortedAscending(t *testing.T) {
	g := New([]int{5, 1, 3})
	got := g.Vertices()
	want := []int{1, 3, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Vertices() = %v, want %v", got, want)
		}
	}
}
