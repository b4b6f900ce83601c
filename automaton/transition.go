// Package automaton builds the LR(0) and canonical LR(1) item-set
// automata (spec §4.C, §4.E): closure, goto, and the breadth-first
// canonical collection of states. It knows nothing about ACTION/GOTO
// table cells, conflicts, or lookahead computation past canonical LR(1) —
// those live in packages lalr and table.
package automaton

import "github.com/dekarrin/lalrtab/grammar"

// StateID is a dense, per-build identifier assigned to parser states in
// the order the canonical collection discovers them (spec §3, "Parser
// state"; §5, "state IDs are assigned in discovery order").
type StateID int

// TerminalTransition is the ACTION table's key: a state and the terminal
// consumed leaving it (spec §3, "Transitions").
type TerminalTransition struct {
	State    StateID
	Terminal grammar.TerminalTag
}

// NonterminalTransition is the GOTO table's key: a state and the
// nonterminal whose reduction re-enters the automaton from it.
type NonterminalTransition struct {
	State       StateID
	Nonterminal grammar.NonterminalTag
}
