package cnf

import "github.com/crillab/gophercount/intset"

// A Clause is an ordered collection of signed literals, preserving the
// order in which literals were accepted by the parser. Grounded on the
// Clause class of original_source/addmc/src/logic.cc, which is a
// vector<Int> rather than a set: insertion order matters for the textual
// dump (WriteClauses) even though membership is what the solver-facing
// invariants care about.
type Clause []int

// Vars returns {|l| : l in c}, the clause's variable set.
func (c Clause) Vars() *intset.Set {
	vars := intset.New()
	for _, lit := range c {
		vars.Add(abs(lit))
	}
	return vars
}

// Assignment maps variables to booleans.
type Assignment map[int]bool

// ExtendAssignments produces a new list where each assignment in
// assignments is duplicated, one copy with v set false and one with v set
// true. On an empty input it returns the two singleton assignments. This
// fixes the enumeration order used by jointree's
// Nonterminal.GetAdditiveAssignments,
// matching Assignment::extendAssignments in the original.
func ExtendAssignments(assignments []Assignment, v int) []Assignment {
	if len(assignments) == 0 {
		return []Assignment{
			{v: false},
			{v: true},
		}
	}
	extended := make([]Assignment, 0, 2*len(assignments))
	for _, a := range assignments {
		withFalse := cloneAssignment(a)
		withFalse[v] = false
		extended = append(extended, withFalse)

		withTrue := cloneAssignment(a)
		withTrue[v] = true
		extended = append(extended, withTrue)
	}
	return extended
}

func cloneAssignment(a Assignment) Assignment {
	out := make(Assignment, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	return out
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
