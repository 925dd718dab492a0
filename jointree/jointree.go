// Package jointree implements the join-tree node abstraction of
// spec.md §4.7: terminals (one per clause) and nonterminals (projection
// nodes), the BIGGEST_NODE/HIGHEST_NODE variable orderings synthesised from
// tree structure, and the cluster/rank helpers consumed by external
// clustering heuristics. Join-tree *construction* — choosing which clauses
// and nonterminals to group under which parent — is out of scope; this
// package only supplies the node types and the queries over them.
//
// Grounded on the JoinNode/JoinTerminal/JoinNonterminal classes of
// original_source/addmc/src/logic.cc. The original's static nodeCount,
// terminalCount and nonterminalIndices fields (reset/restored via
// resetStaticFields/restoreStaticFields around independent join-tree
// builds) become the explicit Builder and Snapshot types below, per the
// "Static node state" design note.
package jointree

import (
	"fmt"
	"io"
	"sort"

	"github.com/crillab/gophercount/cnf"
	"github.com/crillab/gophercount/config"
	"github.com/crillab/gophercount/intset"
	"github.com/crillab/gophercount/order"
)

// Heuristic codes for variable orders synthesised from join-tree structure,
// continuing the numbering of order.Heuristic (1..7 are the CNF-level
// heuristics dispatched straight to the order package).
const (
	BiggestNode = 8
	HighestNode = 9
)

// Clustering heuristic names consumed by ChooseClusterIndex and NodeRank.
const (
	BucketList  = "bucket_list"
	BucketTree  = "bucket_tree"
	BouquetList = "bouquet_list"
	BouquetTree = "bouquet_tree"
)

// Node is a join-tree node: a Terminal wraps one clause, a Nonterminal
// projects a set of variables out of its children's union.
type Node interface {
	NodeIndex() int
	IsTerminal() bool
	PreProjectionVars() *intset.Set
	PostProjectionVars() *intset.Set
	GetWidth(assignment cnf.Assignment) int
	updateVarSizes(varSizes map[int]int)
}

// Terminal is a leaf node standing for the clause at the same index in the
// owning Cnf's clause list.
type Terminal struct {
	nodeIndex         int
	preProjectionVars *intset.Set
	clauseVars        *intset.Set
}

func (t *Terminal) NodeIndex() int                  { return t.nodeIndex }
func (t *Terminal) IsTerminal() bool                { return true }
func (t *Terminal) PreProjectionVars() *intset.Set  { return t.preProjectionVars }
func (t *Terminal) PostProjectionVars() *intset.Set { return t.preProjectionVars }

// GetWidth returns the number of pre-projection variables left unassigned
// by assignment.
func (t *Terminal) GetWidth(assignment cnf.Assignment) int {
	width := 0
	for _, v := range t.preProjectionVars.Sorted() {
		if _, assigned := assignment[v]; !assigned {
			width++
		}
	}
	return width
}

func (t *Terminal) updateVarSizes(varSizes map[int]int) {
	size := t.clauseVars.Len()
	for _, v := range t.clauseVars.Sorted() {
		if size > varSizes[v] {
			varSizes[v] = size
		}
	}
}

// Nonterminal projects projectionVars out of the union of its children's
// post-projection variables.
type Nonterminal struct {
	nodeIndex         int
	children          []Node
	projectionVars    *intset.Set
	preProjectionVars *intset.Set
	cnf               *cnf.Cnf
}

func (n *Nonterminal) NodeIndex() int                 { return n.nodeIndex }
func (n *Nonterminal) IsTerminal() bool               { return false }
func (n *Nonterminal) PreProjectionVars() *intset.Set { return n.preProjectionVars }
func (n *Nonterminal) ProjectionVars() *intset.Set    { return n.projectionVars }
func (n *Nonterminal) Children() []Node               { return n.children }

// PostProjectionVars returns preProjectionVars minus projectionVars.
func (n *Nonterminal) PostProjectionVars() *intset.Set {
	return intset.Diff(n.preProjectionVars, n.projectionVars)
}

// GetWidth returns the widest of this node's own width and every child's.
func (n *Nonterminal) GetWidth(assignment cnf.Assignment) int {
	width := 0
	for _, v := range n.preProjectionVars.Sorted() {
		if _, assigned := assignment[v]; !assigned {
			width++
		}
	}
	for _, c := range n.children {
		if w := c.GetWidth(assignment); w > width {
			width = w
		}
	}
	return width
}

func (n *Nonterminal) updateVarSizes(varSizes map[int]int) {
	size := n.preProjectionVars.Len()
	for _, v := range n.preProjectionVars.Sorted() {
		if size > varSizes[v] {
			varSizes[v] = size
		}
	}
	for _, c := range n.children {
		c.updateVarSizes(varSizes)
	}
}

// Builder owns the node-index bookkeeping that the original kept in
// JoinNode's static fields: how many nodes and terminals have been created,
// and which nonterminal indices are taken.
type Builder struct {
	cnf                *cnf.Cnf
	nodeCount          int
	terminalCount      int
	nonterminalIndices *intset.Set
}

// NewBuilder returns a Builder whose terminals are drawn from c's clause
// list, in order.
func NewBuilder(c *cnf.Cnf) *Builder {
	return &Builder{cnf: c, nonterminalIndices: intset.New()}
}

// NewTerminal builds the terminal for the next unclaimed clause, in clause
// order, matching JoinTerminal's constructor.
func (b *Builder) NewTerminal() (*Terminal, error) {
	idx := b.terminalCount
	if idx >= len(b.cnf.Clauses) {
		return nil, fmt.Errorf("jointree: no clause at index %d to build a terminal from", idx)
	}
	vars := b.cnf.Clauses[idx].Vars()
	t := &Terminal{nodeIndex: idx, preProjectionVars: vars, clauseVars: vars}
	b.terminalCount++
	b.nodeCount++
	return t, nil
}

// RequestAutoIndex tells NewNonterminal to assign the next free node index.
const RequestAutoIndex = -1

// NewNonterminal builds a nonterminal over children, projecting
// projectionVars. requestedIndex is either RequestAutoIndex or an explicit
// index that must be >= terminalCount and not already taken, matching
// JoinNonterminal's constructor.
func (b *Builder) NewNonterminal(children []Node, projectionVars *intset.Set, requestedIndex int) (*Nonterminal, error) {
	idx := requestedIndex
	if idx == RequestAutoIndex {
		idx = b.nodeCount
	} else if idx < b.terminalCount {
		return nil, &NodeIndexConflictError{Requested: idx, TerminalCount: b.terminalCount}
	} else if b.nonterminalIndices.Contains(idx) {
		return nil, &NodeIndexConflictError{Requested: idx, Taken: true}
	}

	pre := intset.New()
	for _, c := range children {
		pre = intset.Union(pre, c.PostProjectionVars())
	}

	n := &Nonterminal{
		nodeIndex:         idx,
		children:          children,
		projectionVars:    projectionVars,
		preProjectionVars: pre,
		cnf:               b.cnf,
	}
	b.nonterminalIndices.Add(idx)
	b.nodeCount++
	return n, nil
}

// Snapshot is a backup of a Builder's counters, returned by Snapshot and
// consumed by Restore.
type Snapshot struct {
	nodeCount          int
	terminalCount      int
	nonterminalIndices *intset.Set
}

// Snapshot backs up b's counters and resets b to a fresh state, mirroring
// JoinNode::resetStaticFields.
func (b *Builder) Snapshot() Snapshot {
	snap := Snapshot{
		nodeCount:          b.nodeCount,
		terminalCount:      b.terminalCount,
		nonterminalIndices: b.nonterminalIndices,
	}
	b.nodeCount = 0
	b.terminalCount = 0
	b.nonterminalIndices = intset.New()
	return snap
}

// Restore reinstates a previously captured Snapshot, mirroring
// JoinNode::restoreStaticFields.
func (b *Builder) Restore(snap Snapshot) {
	b.nodeCount = snap.nodeCount
	b.terminalCount = snap.terminalCount
	b.nonterminalIndices = snap.nonterminalIndices
}

// ChooseClusterIndex determines, for node, the cluster among
// projectableVarSets it belongs to, given the cluster it is currently
// assigned (clusterIndex). Grounded on JoinNode::chooseClusterIndex.
func ChooseClusterIndex(node Node, clusterIndex int, projectableVarSets []*intset.Set, heuristic string) (int, error) {
	if clusterIndex < 0 || clusterIndex >= len(projectableVarSets) {
		return 0, fmt.Errorf("jointree: clusterIndex %d out of range [0,%d)", clusterIndex, len(projectableVarSets))
	}

	projectableVars := intset.Union(projectableVarSets...)
	post := node.PostProjectionVars()
	if intset.IsDisjoint(projectableVars, post) {
		return len(projectableVarSets), nil
	}

	if heuristic == BucketList || heuristic == BouquetList {
		return clusterIndex + 1, nil
	}
	for target := clusterIndex + 1; target < len(projectableVarSets); target++ {
		if !intset.IsDisjoint(post, projectableVarSets[target]) {
			return target, nil
		}
	}
	return len(projectableVarSets), nil
}

// NodeRank returns the min (BUCKET_LIST/BUCKET_TREE) or max (otherwise)
// rank, under restrictedVarOrder, of a variable in node's post-projection
// set, or len(restrictedVarOrder) if the set doesn't intersect the order.
// Grounded on JoinNode::getNodeRank.
func NodeRank(node Node, restrictedVarOrder []int, heuristic string) int {
	post := node.PostProjectionVars()
	wantMin := heuristic == BucketList || heuristic == BucketTree

	rank := -1
	found := false
	for varRank, v := range restrictedVarOrder {
		if !post.Contains(v) {
			continue
		}
		switch {
		case !found:
			rank, found = varRank, true
		case wantMin && varRank < rank:
			rank = varRank
		case !wantMin && varRank > rank:
			rank = varRank
		}
	}
	if !found {
		return len(restrictedVarOrder)
	}
	return rank
}

// BiggestNodeVarOrder orders apparentVars by the size (variable count) of
// the biggest node containing each, descending, ties broken by ascending
// variable id. Grounded on JoinNonterminal::getBiggestNodeVarOrder.
func (n *Nonterminal) BiggestNodeVarOrder() []int {
	varSizes := make(map[int]int, n.cnf.ApparentVars.Len())
	for _, v := range n.cnf.ApparentVars.Sorted() {
		varSizes[v] = 0
	}
	n.updateVarSizes(varSizes)

	varOrder := n.cnf.ApparentVars.Sorted()
	sort.SliceStable(varOrder, func(i, j int) bool {
		return varSizes[varOrder[i]] > varSizes[varOrder[j]]
	})
	return varOrder
}

// HighestNodeVarOrder performs a breadth-first traversal of the nonterminal
// subtree rooted at n, in top-down order, listing each node's projection
// variables. Grounded on JoinNonterminal::getHighestNodeVarOrder.
func (n *Nonterminal) HighestNodeVarOrder() []int {
	var varOrder []int
	queue := []*Nonterminal{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		varOrder = append(varOrder, cur.projectionVars.Sorted()...)
		for _, child := range cur.children {
			if nt, ok := child.(*Nonterminal); ok {
				queue = append(queue, nt)
			}
		}
	}
	return varOrder
}

// GetVarOrder dispatches heuristic: absolute values 1..7 delegate to the
// order package's CNF-level heuristics, BiggestNode and HighestNode use
// this subtree's structure, and a negative code reverses the result.
// Grounded on JoinNonterminal::getVarOrder.
func (n *Nonterminal) GetVarOrder(cfg *config.Config, heuristic int) []int {
	abs := heuristic
	if abs < 0 {
		abs = -abs
	}

	if abs >= 1 && abs <= 7 {
		return order.CnfVarOrder(cfg, n.cnf, order.Heuristic(heuristic))
	}

	var varOrder []int
	switch abs {
	case BiggestNode:
		varOrder = n.BiggestNodeVarOrder()
	case HighestNode:
		varOrder = n.HighestNodeVarOrder()
	default:
		panic(fmt.Sprintf("jointree: unknown var order heuristic %d", heuristic))
	}
	if heuristic < 0 {
		reverseInts(varOrder)
	}
	return varOrder
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// GetAdditiveAssignments enumerates 2^sliceVarCount assignments over the
// first sliceVarCount additive variables encountered in heuristic's order,
// or the singleton empty assignment when sliceVarCount <= 0. Grounded on
// JoinNonterminal::getAdditiveAssignments.
func (n *Nonterminal) GetAdditiveAssignments(cfg *config.Config, heuristic, sliceVarCount int) []cnf.Assignment {
	if sliceVarCount <= 0 {
		return []cnf.Assignment{{}}
	}

	varOrder := n.GetVarOrder(cfg, heuristic)
	var assignments []cnf.Assignment
	assignedVars := 0
	for i := 0; i < len(varOrder) && assignedVars < sliceVarCount; i++ {
		v := varOrder[i]
		if n.cnf.AdditiveVars.Contains(v) {
			assignments = cnf.ExtendAssignments(assignments, v)
			assignedVars++
		}
	}
	return assignments
}

// varElimWord prefixes the eliminated-variable list in WriteNode's output,
// matching the original's VAR_ELIM_WORD marker.
const varElimWord = "e"

// WriteNode writes startWord, this node's 1-based index, its children's
// 1-based indices, and its eliminated variables, matching
// JoinNonterminal::printNode.
func (n *Nonterminal) WriteNode(w io.Writer, startWord string) {
	fmt.Fprintf(w, "%s%d ", startWord, n.nodeIndex+1)
	for _, c := range n.children {
		fmt.Fprintf(w, "%d ", c.NodeIndex()+1)
	}
	fmt.Fprint(w, varElimWord)
	for _, v := range n.projectionVars.Sorted() {
		fmt.Fprintf(w, " %d", v)
	}
	fmt.Fprintln(w)
}

// WriteSubtree writes every nonterminal descendant before this node,
// post-order, matching JoinNonterminal::printSubtree.
func (n *Nonterminal) WriteSubtree(w io.Writer, startWord string) {
	for _, c := range n.children {
		if nt, ok := c.(*Nonterminal); ok {
			nt.WriteSubtree(w, startWord)
		}
	}
	n.WriteNode(w, startWord)
}
