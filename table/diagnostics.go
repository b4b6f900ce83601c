package table

import (
	"fmt"

	"github.com/dekarrin/lalrtab/automaton"
	"github.com/dekarrin/lalrtab/grammar"
	"github.com/google/uuid"
)

// ConflictKind names which of the classic conflict shapes a ConflictRecord
// describes (the same three makeLRConflictError distinguishes: shift wins
// over reduce or vice versa, two reductions compete, or accept collides
// with something else — a live possibility once $ is a genuine lookahead
// terminal like any other).
type ConflictKind int

const (
	ShiftReduce ConflictKind = iota
	ReduceReduce
	AcceptConflict
)

func (k ConflictKind) String() string {
	switch k {
	case ShiftReduce:
		return "shift/reduce"
	case ReduceReduce:
		return "reduce/reduce"
	case AcceptConflict:
		return "accept"
	default:
		return "conflict"
	}
}

// ConflictRecord names one cell of the ACTION table that ended up with more
// than one contending action.
type ConflictRecord struct {
	State    automaton.StateID
	Terminal grammar.TerminalTag
	Kind     ConflictKind
	Actions  []Action
	Message  string
}

// classifyConflict names the kind of conflict two (or more) colliding
// actions represent and renders the same kind of one-line message
// makeLRConflictError produces, generalized to an arbitrary action count so
// a three-way reduce/reduce pile-up still gets one readable sentence.
func classifyConflict(tg *grammar.TaggedGrammar, state automaton.StateID, term grammar.TerminalTag, actions []Action) ConflictRecord {
	hasShift, hasReduce, hasAccept := false, false, false
	for _, a := range actions {
		switch a.Kind {
		case Shift:
			hasShift = true
		case Reduce:
			hasReduce = true
		case Accept:
			hasAccept = true
		}
	}

	kind := ReduceReduce
	switch {
	case hasAccept:
		kind = AcceptConflict
	case hasShift && hasReduce:
		kind = ShiftReduce
	}

	onInput := tg.TermName(term)
	descs := make([]string, len(actions))
	for i, a := range actions {
		switch a.Kind {
		case Shift:
			descs[i] = fmt.Sprintf("shift to state %d", a.State)
		case Reduce:
			descs[i] = fmt.Sprintf("reduce %s", tg.ProductionString(tg.Production(a.Production)))
		case Accept:
			descs[i] = "accept"
		}
	}

	msg := fmt.Sprintf("%s conflict detected on terminal %q in state %d (", kind, onInput, state)
	for i, d := range descs {
		if i > 0 {
			msg += " or "
		}
		msg += d
	}
	msg += ")"

	return ConflictRecord{State: state, Terminal: term, Kind: kind, Actions: actions, Message: msg}
}

// Diagnostics carries everything about a table build that isn't a hard
// error: every ACTION conflict discovered, plus informational notes (spec
// §7's DuplicateProductionError is treated as a note here, not a build
// failure — this module's policy is that only structural grammar errors are
// fatal). BuildID is a fresh identifier stamped on every Diagnostics value,
// so two builds of the same grammar can still be told apart in logs.
type Diagnostics struct {
	BuildID   string
	Conflicts []ConflictRecord
	Notes     []string
}

func newDiagnostics() Diagnostics {
	return Diagnostics{BuildID: uuid.NewString()}
}

func (d *Diagnostics) addConflict(c ConflictRecord) {
	d.Conflicts = append(d.Conflicts, c)
}

func (d *Diagnostics) addNote(note string) {
	d.Notes = append(d.Notes, note)
}
