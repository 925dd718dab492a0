// Package order implements the seven variable-order heuristics of
// spec.md §4.6, each producing a permutation of a Cnf's apparent variables.
//
// Grounded on Cnf::get*VarOrder in original_source/addmc/src/logic.cc,
// dispatched the way crillab/gophersat's solver dispatches its own
// heuristic-selecting enums (a small int-keyed switch), built on top of the
// graph and intset packages for the graph-based heuristics.
package order

import (
	"fmt"
	"math/rand/v2"

	"github.com/crillab/gophercount/cnf"
	"github.com/crillab/gophercount/config"
	"github.com/crillab/gophercount/graph"
	"github.com/crillab/gophercount/intset"
)

// Heuristic selects a variable-order algorithm. A negative value requests
// the reverse of the positive value's order, per spec.md §4.6.
type Heuristic int

const (
	Random      Heuristic = 1
	Declared    Heuristic = 2
	MostClauses Heuristic = 3
	Minfill     Heuristic = 4
	Mcs         Heuristic = 5
	Lexp        Heuristic = 6
	Lexm        Heuristic = 7
)

func (h Heuristic) String() string {
	switch h {
	case Random:
		return "RANDOM"
	case Declared:
		return "DECLARED"
	case MostClauses:
		return "MOST_CLAUSES"
	case Minfill:
		return "MINFILL"
	case Mcs:
		return "MCS"
	case Lexp:
		return "LEXP"
	case Lexm:
		return "LEXM"
	default:
		return fmt.Sprintf("Heuristic(%d)", int(h))
	}
}

// CnfVarOrder computes the order selected by heuristic over c's apparent
// variables, reversing it when heuristic is negative. Grounded on
// Cnf::getCnfVarOrder; an absolute value outside 1..7 is a programming
// error, matching the original's terminal assert.
func CnfVarOrder(cfg *config.Config, c *cnf.Cnf, heuristic Heuristic) []int {
	abs := heuristic
	if abs < 0 {
		abs = -abs
	}

	var varOrder []int
	switch abs {
	case Random:
		varOrder = randomVarOrder(cfg, c)
	case Declared:
		varOrder = declaredVarOrder(c)
	case MostClauses:
		varOrder = mostClausesVarOrder(c)
	case Minfill:
		varOrder = minfillVarOrder(c)
	case Mcs:
		varOrder = mcsVarOrder(c)
	case Lexp:
		varOrder = lexpVarOrder(c)
	case Lexm:
		varOrder = lexmVarOrder(c)
	default:
		panic(fmt.Sprintf("order: unknown heuristic %d", int(heuristic)))
	}

	if heuristic < 0 {
		reverse(varOrder)
	}
	return varOrder
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// randomVarOrder uniformly shuffles apparentVars, seeded from cfg.RandomSeed
// so the result is reproducible for a given seed. Grounded on
// Cnf::getRandomVarOrder, which seeds a std::mt19937 from randomSeed; here
// the seed feeds math/rand/v2's PCG source (no third-party RNG appears
// anywhere in the reference pack, so the standard library is the only
// grounded choice for this concern; see DESIGN.md).
func randomVarOrder(cfg *config.Config, c *cnf.Cnf) []int {
	varOrder := c.ApparentVars.Sorted()
	rng := rand.New(rand.NewPCG(0, uint64(cfg.RandomSeed)))
	rng.Shuffle(len(varOrder), func(i, j int) {
		varOrder[i], varOrder[j] = varOrder[j], varOrder[i]
	})
	return varOrder
}

// declaredVarOrder lists 1..declaredVarCount restricted to apparentVars.
func declaredVarOrder(c *cnf.Cnf) []int {
	varOrder := make([]int, 0, c.ApparentVars.Len())
	for v := 1; v <= c.DeclaredVarCount; v++ {
		if c.ApparentVars.Contains(v) {
			varOrder = append(varOrder, v)
		}
	}
	return varOrder
}

// mostClausesVarOrder sorts apparentVars by descending clause-occurrence
// count, ties broken by descending variable id. Grounded on
// Cnf::getMostClausesVarOrder's multimap<Int,Int,greater<Int>>; see
// DESIGN.md for the deliberate tie-break choice (spec.md's stated
// descending-id rule, rather than the original's equal-key insertion
// order, which happens to be ascending).
func mostClausesVarOrder(c *cnf.Cnf) []int {
	varOrder := c.ApparentVars.Sorted()
	count := func(v int) int {
		if s := c.VarToClauses[v]; s != nil {
			return s.Len()
		}
		return 0
	}
	sortDesc(varOrder, func(a, b int) bool {
		if count(a) != count(b) {
			return count(a) > count(b)
		}
		return a > b
	})
	return varOrder
}

// sortDesc is a tiny insertion sort over the "less" relation supplied by
// less, kept local so this package has no dependency on sort.Slice's
// unstable guarantees for the tie-breaking rules above.
func sortDesc(s []int, less func(a, b int) bool) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(s[j], s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// minfillVarOrder repeatedly removes the vertex minimising
// count_fill_in_edges, adding its fill-in edges first. Grounded on
// Cnf::getMinfillVarOrder.
func minfillVarOrder(c *cnf.Cnf) []int {
	g := c.PrimalGraph()
	varOrder := make([]int, 0, g.Len())
	for g.Len() > 0 {
		v, err := g.MinFillVertex()
		if err != nil {
			break
		}
		g.FillInEdges(v)
		g.RemoveVertex(v)
		varOrder = append(varOrder, v)
	}
	return varOrder
}

// mcsVarOrder runs Maximum Cardinality Search: the smallest vertex starts,
// then at each step the unranked vertex with the most ranked neighbours is
// emitted, ties broken by the ascending iteration order of the count map.
// Grounded on Cnf::getMcsVarOrder.
func mcsVarOrder(c *cnf.Cnf) []int {
	g := c.PrimalGraph()
	vertices := g.Vertices()
	if len(vertices) == 0 {
		return nil
	}

	rankedNeighborCount := make(map[int]int, len(vertices)-1)
	for _, v := range vertices[1:] {
		rankedNeighborCount[v] = 0
	}

	best := vertices[0]
	varOrder := make([]int, 0, len(vertices))
	for {
		varOrder = append(varOrder, best)
		delete(rankedNeighborCount, best)
		for _, n := range g.Neighbors(best) {
			if _, ok := rankedNeighborCount[n]; ok {
				rankedNeighborCount[n]++
			}
		}

		bestCount := -1
		found := false
		for _, v := range sortedKeys(rankedNeighborCount) {
			if c := rankedNeighborCount[v]; c > bestCount {
				bestCount = c
				best = v
				found = true
			}
		}
		if !found {
			break
		}
	}
	return varOrder
}

func sortedKeys(m map[int]int) []int {
	keys := intset.New()
	for k := range m {
		keys.Add(k)
	}
	return keys.Sorted()
}

// lexpVarOrder runs lexicographic BFS: numbers run from |apparentVars| down
// to 1; at each step the unnumbered vertex with the lexicographically
// largest label is emitted, and the current number is appended to every
// unnumbered neighbour's label. Ties in "largest label" are broken toward
// the smallest vertex id, matching std::max_element's first-maximum
// semantics over an ascending-ordered map. Grounded on Cnf::getLexpVarOrder.
func lexpVarOrder(c *cnf.Cnf) []int {
	g := c.PrimalGraph()
	labels := initLabels(c)
	numberedVertices := make([]int, 0, c.ApparentVars.Len())

	for n := c.ApparentVars.Len(); n > 0; n-- {
		v := maxLabelVertex(labels)
		numberedVertices = append(numberedVertices, v)
		delete(labels, v)
		for _, neighbor := range g.Neighbors(v) {
			if label, ok := labels[neighbor]; ok {
				label.AddNumber(n)
				labels[neighbor] = label
			}
		}
	}
	return numberedVertices
}

// lexmVarOrder is the LEX-M variant: i is appended to w's label iff there is
// a path v -> w through unnumbered vertices all of whose labels are
// strictly smaller than w's current label. The subgraph is rebuilt once per
// round (not once per w): every w in the round removes vertices from that
// same graph, so an earlier w's removals, and any label it picked up from
// AddNumber, persist into later w's path tests within the same round.
// Grounded on Cnf::getLexmVarOrder.
func lexmVarOrder(c *cnf.Cnf) []int {
	labels := initLabels(c)
	numberedVertices := make([]int, 0, c.ApparentVars.Len())

	for i := c.ApparentVars.Len(); i > 0; i-- {
		v := maxLabelVertex(labels)
		numberedVertices = append(numberedVertices, v)
		delete(labels, v)

		sub := c.PrimalGraph()
		for _, numbered := range numberedVertices {
			if numbered != v {
				sub.RemoveVertex(numbered)
			}
		}
		removed := make(map[int]bool)
		for _, w := range sortedLabelKeys(labels) {
			wLabel := labels[w]
			for _, u := range sortedLabelKeys(labels) {
				if u != w && !removed[u] && !labels[u].Less(wLabel) {
					sub.RemoveVertex(u)
					removed[u] = true
				}
			}
			if sub.HasPath(v, w) {
				wLabel.AddNumber(i)
				labels[w] = wLabel
			}
		}
	}
	return numberedVertices
}

func initLabels(c *cnf.Cnf) map[int]graph.Label {
	labels := make(map[int]graph.Label, c.ApparentVars.Len())
	for _, v := range c.ApparentVars.Sorted() {
		labels[v] = graph.Label{}
	}
	return labels
}

// maxLabelVertex returns the vertex with the lexicographically largest
// label, scanning in ascending vertex-id order so ties favour the smallest
// id, matching std::max_element's first-maximum semantics.
func maxLabelVertex(labels map[int]graph.Label) int {
	best := -1
	var bestLabel graph.Label
	for _, v := range sortedLabelKeys(labels) {
		if best == -1 || bestLabel.Less(labels[v]) {
			best = v
			bestLabel = labels[v]
		}
	}
	return best
}

func sortedLabelKeys(labels map[int]graph.Label) []int {
	keys := intset.New()
	for k := range labels {
		keys.Add(k)
	}
	return keys.Sorted()
}
