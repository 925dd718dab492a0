package jointree

import "fmt"

// NodeIndexConflictError is returned when a requested nonterminal node
// index collides with an already-assigned index or falls inside the
// terminal range, matching the original's thrown MyError in the
// JoinNonterminal constructor.
type NodeIndexConflictError struct {
	Requested     int
	TerminalCount int
	Taken         bool
}

func (e *NodeIndexConflictError) Error() string {
	if e.Taken {
		return fmt.Sprintf("jointree: requested node index %d already taken", e.Requested)
	}
	return fmt.Sprintf("jointree: requested node index %d < terminalCount %d", e.Requested, e.TerminalCount)
}
