package lalr

import (
	"fmt"

	"github.com/dekarrin/lalrtab/automaton"
)

// NotLRkError reports that the digraph procedure found a cycle in the
// includes relation through a transition whose Read set is non-empty (spec
// §4.F, §9): "the grammar cannot be parsed at any fixed lookahead depth
// using this table-construction method." Trans names one transition
// belonging to the offending cycle; the cycle itself is not reconstructed
// since no downstream consumer needs anything past "construction failed
// here."
type NotLRkError struct {
	Trans automaton.NonterminalTransition
}

func (e *NotLRkError) Error() string {
	return fmt.Sprintf("grammar is not LR(k) for any k: includes-cycle through state %d, nonterminal #%d carries a non-empty Read set", e.Trans.State, e.Trans.Nonterminal)
}
