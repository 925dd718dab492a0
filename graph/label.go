package graph

// Label is a sequence of integers kept sorted in descending order, used by
// the lexicographic BFS heuristics (LEX-P, LEX-M) to rank unnumbered
// vertices. Grounded on the Label class of
// original_source/addmc/src/logic.cc.
type Label []int

// AddNumber appends i and re-sorts the label descending.
func (l *Label) AddNumber(i int) {
	*l = append(*l, i)
	// insertion sort descending: labels grow by one element per call and
	// stay short in practice, so this avoids importing sort for a single
	// insert.
	for j := len(*l) - 1; j > 0 && (*l)[j] > (*l)[j-1]; j-- {
		(*l)[j], (*l)[j-1] = (*l)[j-1], (*l)[j]
	}
}

// Compare returns -1, 0, or 1 as l is lexicographically less than, equal to,
// or greater than other, following Go's cmp convention so Labels compose
// with slices.SortFunc/slices.MaxFunc.
func (l Label) Compare(other Label) int {
	for i := 0; i < len(l) && i < len(other); i++ {
		if l[i] != other[i] {
			if l[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(l) < len(other):
		return -1
	case len(l) > len(other):
		return 1
	default:
		return 0
	}
}

// Less reports whether l is lexicographically less than other.
func (l Label) Less(other Label) bool {
	return l.Compare(other) < 0
}
