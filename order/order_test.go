package order

import (
	"strings"
	"testing"

	"github.com/crillab/gophercount/cnf"
	"github.com/crillab/gophercount/config"
)

func parseFixture(t *testing.T, input string) *cnf.Cnf {
	t.Helper()
	c, err := cnf.Parse(config.New(), strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return c
}

// fourCycle matches scenario S6: the 4-cycle 1-2-3-4-1.
func fourCycle(t *testing.T) *cnf.Cnf {
	return parseFixture(t, "p cnf 4 4\n1 2 0\n2 3 0\n3 4 0\n4 1 0\n")
}

func TestCnfVarOrderIsAPermutationOfApparentVars(t *testing.T) {
	c := fourCycle(t)
	want := c.ApparentVars.Sorted()
	for _, h := range []Heuristic{Random, Declared, MostClauses, Minfill, Mcs, Lexp, Lexm} {
		got := CnfVarOrder(config.New(), c, h)
		if len(got) != len(want) {
			t.Fatalf("%v: len = %d, want %d", h, len(got), len(want))
		}
		gotSet := asSet(got)
		for _, v := range want {
			if !gotSet[v] {
				t.Errorf("%v: order %v missing variable %d", h, got, v)
			}
		}
	}
}

func TestCnfVarOrderNegativeReversesOrder(t *testing.T) {
	c := fourCycle(t)
	cfg := config.New()
	for _, h := range []Heuristic{Random, Declared, MostClauses, Minfill, Mcs, Lexp, Lexm} {
		forward := CnfVarOrder(cfg, c, h)
		backward := CnfVarOrder(cfg, c, -h)
		if len(forward) != len(backward) {
			t.Fatalf("%v: lengths differ", h)
		}
		for i := range forward {
			if forward[i] != backward[len(backward)-1-i] {
				t.Errorf("%v: order(-h) is not reverse(order(h)): %v vs %v", h, forward, backward)
				break
			}
		}
	}
}

func TestDeclaredVarOrderIsAscending(t *testing.T) {
	c := fourCycle(t)
	got := CnfVarOrder(config.New(), c, Declared)
	want := []int{1, 2, 3, 4}
	if !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMinfillVarOrderOnS5(t *testing.T) {
	c := parseFixture(t, "p cnf 4 4\n1 2 0\n1 3 0\n2 3 0\n3 4 0\n")
	got := CnfVarOrder(config.New(), c, Minfill)
	if len(got) == 0 || got[0] != 1 {
		t.Errorf("first eliminated vertex = %v, want 1 (scenario S5)", got)
	}
}

func TestLexpVarOrderOnFourCycle(t *testing.T) {
	c := fourCycle(t)
	got := CnfVarOrder(config.New(), c, Lexp)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	seen := asSet(got)
	if len(seen) != 4 {
		t.Errorf("order %v has duplicates", got)
	}
}

func asSet(vs []int) map[int]bool {
	m := make(map[int]bool, len(vs))
	for _, v := range vs {
		m[v] = true
	}
	return m
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
