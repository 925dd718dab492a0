package jointree

import (
	"strings"
	"testing"

	"github.com/crillab/gophercount/cnf"
	"github.com/crillab/gophercount/config"
	"github.com/crillab/gophercount/intset"
)

func parseFixture(t *testing.T) *cnf.Cnf {
	t.Helper()
	input := "p cnf 3 2\n1 -2 0\n2 3 0\n"
	c, err := cnf.Parse(config.New(), strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return c
}

func TestBuilderTerminalsFollowClauseOrder(t *testing.T) {
	c := parseFixture(t)
	b := NewBuilder(c)

	t1, err := b.NewTerminal()
	if err != nil {
		t.Fatalf("NewTerminal: %v", err)
	}
	if !t1.PreProjectionVars().Contains(1) || !t1.PreProjectionVars().Contains(2) {
		t.Errorf("terminal 0 vars = %v, want {1,2}", t1.PreProjectionVars().Sorted())
	}

	t2, err := b.NewTerminal()
	if err != nil {
		t.Fatalf("NewTerminal: %v", err)
	}
	if !t2.PreProjectionVars().Contains(2) || !t2.PreProjectionVars().Contains(3) {
		t.Errorf("terminal 1 vars = %v, want {2,3}", t2.PreProjectionVars().Sorted())
	}

	if _, err := b.NewTerminal(); err == nil {
		t.Fatal("NewTerminal succeeded past the end of the clause list, want error")
	}
}

func TestNonterminalPostProjectionVars(t *testing.T) {
	c := parseFixture(t)
	b := NewBuilder(c)
	t1, _ := b.NewTerminal()
	t2, _ := b.NewTerminal()

	n, err := b.NewNonterminal([]Node{t1, t2}, intset.New(2), RequestAutoIndex)
	if err != nil {
		t.Fatalf("NewNonterminal: %v", err)
	}
	got := n.PostProjectionVars().Sorted()
	want := []int{1, 3}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("PostProjectionVars = %v, want %v", got, want)
	}
}

func TestNewNonterminalRejectsTakenIndex(t *testing.T) {
	c := parseFixture(t)
	b := NewBuilder(c)
	t1, _ := b.NewTerminal()
	t2, _ := b.NewTerminal()

	if _, err := b.NewNonterminal([]Node{t1, t2}, intset.New(2), 5); err != nil {
		t.Fatalf("NewNonterminal: %v", err)
	}
	if _, err := b.NewNonterminal([]Node{t1, t2}, intset.New(2), 5); err == nil {
		t.Fatal("expected NodeIndexConflictError for a reused index")
	}
	if _, err := b.NewNonterminal([]Node{t1, t2}, intset.New(2), 0); err == nil {
		t.Fatal("expected NodeIndexConflictError for an index below terminalCount")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c := parseFixture(t)
	b := NewBuilder(c)
	b.NewTerminal()
	b.NewTerminal()

	snap := b.Snapshot()
	if b.terminalCount != 0 || b.nodeCount != 0 {
		t.Fatalf("Snapshot did not reset counters: terminalCount=%d nodeCount=%d", b.terminalCount, b.nodeCount)
	}

	b.Restore(snap)
	if b.terminalCount != 2 || b.nodeCount != 2 {
		t.Errorf("Restore did not reinstate counters: terminalCount=%d nodeCount=%d", b.terminalCount, b.nodeCount)
	}
}

func TestGetAdditiveAssignmentsSizeLaw(t *testing.T) {
	c := parseFixture(t)
	b := NewBuilder(c)
	t1, _ := b.NewTerminal()
	t2, _ := b.NewTerminal()
	n, err := b.NewNonterminal([]Node{t1, t2}, intset.New(), RequestAutoIndex)
	if err != nil {
		t.Fatalf("NewNonterminal: %v", err)
	}

	cfg := config.New()
	assignments := n.GetAdditiveAssignments(cfg, int(2), 2) // order.Declared
	if len(assignments) != 4 {
		t.Errorf("len(assignments) = %d, want 4 (property 9: 2^2)", len(assignments))
	}

	zero := n.GetAdditiveAssignments(cfg, int(2), 0)
	if len(zero) != 1 || len(zero[0]) != 0 {
		t.Errorf("GetAdditiveAssignments with sliceVarCount<=0 = %v, want one empty assignment", zero)
	}
}
