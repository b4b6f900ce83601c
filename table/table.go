package table

import (
	"fmt"

	"github.com/dekarrin/lalrtab/automaton"
	"github.com/dekarrin/lalrtab/grammar"
	"github.com/dekarrin/rosed"
)

// ParserTable is the finished product of every Build* entry point: a dense
// ACTION/GOTO table addressed by the tagged transition keys from package
// automaton, plus whatever Diagnostics the build accumulated along the way
// (spec §3, "Parser table"; §7).
type ParserTable struct {
	Grammar   *grammar.TaggedGrammar
	Start     automaton.StateID
	NumStates int

	Action map[automaton.TerminalTransition]ActionSet
	Goto   map[automaton.NonterminalTransition]automaton.StateID

	Diagnostics Diagnostics
}

// ActionAt returns the ACTION cell for (state, term); an absent cell reads
// back as the zero ActionSet (no actions — a parse error).
func (t *ParserTable) ActionAt(state automaton.StateID, term grammar.TerminalTag) ActionSet {
	return t.Action[automaton.TerminalTransition{State: state, Terminal: term}]
}

// GotoAt returns the GOTO cell for (state, nonterminal), if defined.
func (t *ParserTable) GotoAt(state automaton.StateID, nt grammar.NonterminalTag) (automaton.StateID, bool) {
	target, ok := t.Goto[automaton.NonterminalTransition{State: state, Nonterminal: nt}]
	return target, ok
}

// String renders the table as a state-by-symbol grid, one row per state
// and one column per terminal/nonterminal, in the same "S | A:term... |
// G:nonterm..." layout the teacher's SLR table printer uses.
func (t *ParserTable) String() string {
	tg := t.Grammar
	terms := tg.Terminals()

	var nonterms []grammar.NonterminalTag
	for _, nt := range tg.Nonterminals() {
		if nt == tg.StartPrime() {
			continue
		}
		nonterms = append(nonterms, nt)
	}

	headers := []string{"S", "|"}
	for _, term := range terms {
		headers = append(headers, "A:"+tg.TermName(term))
	}
	headers = append(headers, "|")
	for _, nt := range nonterms {
		headers = append(headers, "G:"+tg.NontermName(nt))
	}

	data := [][]string{headers}
	for s := 0; s < t.NumStates; s++ {
		state := automaton.StateID(s)
		row := []string{fmt.Sprintf("%d", s), "|"}

		for _, term := range terms {
			cell := ""
			as := t.ActionAt(state, term)
			switch {
			case as.IsConflict():
				cell = "!!"
			default:
				if act, ok := as.Sole(); ok {
					switch act.Kind {
					case Accept:
						cell = "acc"
					case Shift:
						cell = fmt.Sprintf("s%d", act.State)
					case Reduce:
						cell = fmt.Sprintf("r%d", act.Production)
					}
				}
			}
			row = append(row, cell)
		}

		row = append(row, "|")
		for _, nt := range nonterms {
			cell := ""
			if target, ok := t.GotoAt(state, nt); ok {
				cell = fmt.Sprintf("%d", target)
			}
			row = append(row, cell)
		}

		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
