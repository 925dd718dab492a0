// Package cnf materialises the parsed constraint store described in
// spec.md §3-§4.5: clauses with per-clause type/weight/comparator/coefficient
// metadata, literal weights, and the additive/disjunctive variable
// partition, plus the parser that populates it from one of the four
// DIMACS/WBO dialects.
//
// Grounded on the Cnf class of original_source/addmc/src/logic.cc and on the
// hand-rolled bufio parsers of crillab/gophersat's solver/parser.go and
// maxsat/parser.go.
package cnf

import (
	"fmt"
	"io"

	"github.com/crillab/gophercount/config"
	"github.com/crillab/gophercount/graph"
	"github.com/crillab/gophercount/intset"
	"github.com/crillab/gophercount/number"
)

// Constraint type tags, spec.md §3.
const (
	TypeCNF byte = 'c'
	TypeXOR byte = 'x'
	TypePB  byte = 'p'
)

// PB comparator codes, spec.md §3 (0 is "unused", used only for non-PB
// constraints per the Open Question in spec.md §9).
const (
	ComparatorNone = iota
	ComparatorGtEq
	ComparatorEq
)

// Cnf is the parsed constraint store.
type Cnf struct {
	cfg *config.Config

	DeclaredVarCount     int
	DeclaredClauseCount  int // advisory: from the problem line, never enforced
	ProcessedClauseCount int

	Clauses     []Clause
	Types       []byte
	Weights     []float64
	Comparators []int
	CoefLists   []map[int]int
	KList       []int

	VarToClauses map[int]*intset.Set
	ApparentVars *intset.Set
	AdditiveVars *intset.Set

	LiteralWeights map[int]number.Number

	TrivialBoundPartialMaxSAT int
	MinMaxsatSolving          bool
}

func newCnf(cfg *config.Config) *Cnf {
	return &Cnf{
		cfg:            cfg,
		VarToClauses:   make(map[int]*intset.Set),
		ApparentVars:   intset.New(),
		AdditiveVars:   intset.New(),
		LiteralWeights: make(map[int]number.Number),
	}
}

// DisjunctiveVars returns the apparent variables not in AdditiveVars: the
// complement described by spec.md §3 invariant 5 and the GLOSSARY entry for
// "disjunctive variable". Unlike the original's getDisjunctiveVars (which
// ranges over [1, declaredVarCount]), this is restricted to ApparentVars,
// matching the glossary's definition precisely; see DESIGN.md.
func (c *Cnf) DisjunctiveVars() *intset.Set {
	return intset.Diff(c.ApparentVars, c.AdditiveVars)
}

// addClause records clause under type typ with the given weight, appending
// it to Clauses and indexing its variables into VarToClauses. comparator,
// coefs, and k are only meaningful for typ == TypePB; addClause still
// records comparator=ComparatorNone, k=0 for other types, matching the
// original's addClause and the Open Question in spec.md §9 about that
// field's authoritativeness.
func (c *Cnf) addClause(clause Clause, typ byte, weight float64, comparator int, coefs map[int]int, k int) int {
	idx := len(c.Clauses)
	c.Clauses = append(c.Clauses, clause)
	c.Types = append(c.Types, typ)
	c.Weights = append(c.Weights, weight)
	c.Comparators = append(c.Comparators, comparator)
	c.CoefLists = append(c.CoefLists, coefs)
	c.KList = append(c.KList, k)

	for _, lit := range clause {
		v := abs(lit)
		if c.VarToClauses[v] == nil {
			c.VarToClauses[v] = intset.New()
		}
		c.VarToClauses[v].Add(idx)
	}
	return idx
}

func (c *Cnf) setApparentVars() {
	for v := range c.VarToClauses {
		c.ApparentVars.Add(v)
	}
}

// PrimalGraph returns the primal graph of the CNF: vertices are
// ApparentVars, and every pair of variables co-occurring in a clause is
// joined by an edge. Grounded on Cnf::getPrimalGraph.
func (c *Cnf) PrimalGraph() *graph.Graph {
	g := graph.New(c.ApparentVars.Sorted())
	for _, clause := range c.Clauses {
		vars := clause.Vars().Sorted()
		for i := 0; i < len(vars); i++ {
			for j := i + 1; j < len(vars); j++ {
				g.AddEdge(vars[i], vars[j])
			}
		}
	}
	return g
}

// WriteClauses writes a textual dump of every clause, "c "-prefixed,
// matching the original's Cnf::printClauses.
func (c *Cnf) WriteClauses(w io.Writer) {
	fmt.Fprintf(w, "c cnf formula:\n")
	for i, clause := range c.Clauses {
		fmt.Fprintf(w, "c  clause %5d:", i+1)
		for _, lit := range clause {
			fmt.Fprintf(w, " %5d", lit)
		}
		fmt.Fprintf(w, "\n")
	}
}

// WriteLiteralWeights writes a textual dump of every declared variable's
// literal weights, "c "-prefixed, matching the original's
// Cnf::printLiteralWeights.
func (c *Cnf) WriteLiteralWeights(w io.Writer) {
	fmt.Fprintf(w, "c literal weights:\n")
	for v := 1; v <= c.DeclaredVarCount; v++ {
		fmt.Fprintf(w, "c  weight %5d: %s\n", v, c.LiteralWeights[v].String())
		fmt.Fprintf(w, "c  weight %5d: %s\n", -v, c.LiteralWeights[-v].String())
	}
}

