package table

import (
	"fmt"

	"github.com/dekarrin/lalrtab/automaton"
)

// ActionKind distinguishes the three things a parser can do on a lookahead
// terminal (spec §3, "Action"): shift it and move to another state, reduce
// by some production, or accept.
type ActionKind int

const (
	Shift ActionKind = iota
	Reduce
	Accept
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "unknown"
	}
}

// Action is one entry of the ACTION table. State is meaningful only for
// Shift; Production only for Reduce.
type Action struct {
	Kind       ActionKind
	State      automaton.StateID
	Production int
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("shift %d", a.State)
	case Reduce:
		return fmt.Sprintf("reduce #%d", a.Production)
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

func (a Action) Equal(o Action) bool {
	return a.Kind == o.Kind && a.State == o.State && a.Production == o.Production
}

// ActionSet is the non-fatal alternative to picking a winner (spec's
// "ACTION conflicts are recorded, not fatal" design): a cell with exactly
// one contributing Action is unambiguous; a cell with more than one is a
// conflict, and every contending action is kept rather than discarded.
// Nothing in this package silently resolves a conflict in favor of shift or
// of the first-declared production — see table's Diagnostics for a record
// of every cell where this happened, and the caller's own policy decides
// what, if anything, to do about it.
type ActionSet struct {
	Actions []Action
}

// IsConflict reports whether more than one action landed on this cell.
func (as ActionSet) IsConflict() bool { return len(as.Actions) > 1 }

// Sole returns the cell's single action. Only valid when !IsConflict(); a
// conflicted or empty cell returns the zero Action and false.
func (as ActionSet) Sole() (Action, bool) {
	if len(as.Actions) != 1 {
		return Action{}, false
	}
	return as.Actions[0], true
}

// add appends act to the set unless an equal action is already present
// (closure construction and the FOLLOW-gated reduce loop can legitimately
// discover the same action twice).
func (as *ActionSet) add(act Action) {
	for _, existing := range as.Actions {
		if existing.Equal(act) {
			return
		}
	}
	as.Actions = append(as.Actions, act)
}
