// Package table finalizes a canonical collection (package automaton) plus a
// lookahead strategy (none, SLR's FOLLOW sets, LALR's digraph-computed LA,
// or canonical LR(1)'s own per-item lookaheads) into a dense ACTION/GOTO
// table, recording rather than rejecting every conflict it finds along the
// way (spec §4.G, §7).
package table

import (
	"sort"

	"github.com/dekarrin/lalrtab/automaton"
	"github.com/dekarrin/lalrtab/grammar"
	"github.com/dekarrin/lalrtab/grammarerr"
	"github.com/dekarrin/lalrtab/internal/util"
	"github.com/dekarrin/lalrtab/lalr"
)

// BuildError wraps whatever structural problem stopped a table from being
// built at all: a grammarerr.* value for a malformed grammar, or a
// *lalr.NotLRkError when build_lalr1's digraph pass finds a genuine cycle.
// Conflicts are never wrapped here — they land in the returned table's
// Diagnostics instead, since this module's policy treats them as
// non-fatal.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string { return "building parser table: " + e.Err.Error() }
func (e *BuildError) Unwrap() error { return e.Err }

// transitionSource is satisfied by both automaton.LR0Collection and
// automaton.LR1Collection: whichever canonical collection a build starts
// from, shift/goto extraction is identical.
type transitionSource interface {
	Transitions(automaton.StateID) map[grammar.Symbol]automaton.StateID
}

// BuildLR0 constructs a pure LR(0) table: every completed item reduces
// unconditionally, on every terminal, regardless of lookahead (spec §4.D).
// This is the weakest and most conflict-prone of the four constructions;
// it exists to let callers see exactly what the bare viable-prefix
// automaton commits to before any lookahead discipline is layered on.
func BuildLR0(g grammar.Grammar) (*ParserTable, error) {
	tg, err := grammar.BuildTagged(g)
	if err != nil {
		return nil, &BuildError{Err: err}
	}

	lr0 := automaton.BuildLR0Collection(tg)
	allTerms := util.NewIntSet()
	for _, t := range tg.Terminals() {
		allTerms.Add(int(t))
	}

	return buildFromLR0(tg, lr0, func(automaton.StateID, int) util.IntSet {
		return allTerms
	})
}

// BuildSLR1 constructs an SLR(1) table: a completed item for A -> ω reduces
// on every terminal in FOLLOW(A) (spec §4.D). Simple and cheap, but rejects
// some LALR(1) grammars because FOLLOW is computed per nonterminal, with no
// sensitivity to which state the reduction happens in.
func BuildSLR1(g grammar.Grammar) (*ParserTable, error) {
	tg, err := grammar.BuildTagged(g)
	if err != nil {
		return nil, &BuildError{Err: err}
	}

	lr0 := automaton.BuildLR0Collection(tg)
	nullable := tg.Nullable()
	follow := tg.Follow(nullable)

	return buildFromLR0(tg, lr0, func(_ automaton.StateID, prodIdx int) util.IntSet {
		lhs := tg.Production(prodIdx).LHS
		return follow[lhs]
	})
}

// BuildLALR1 constructs an LALR(1) table by running the DeRemer-Pennello
// digraph algorithm (package lalr) over the LR(0) collection's reductions,
// then restricting each one to its own computed lookahead set (spec §4.F).
// It returns a *BuildError wrapping a *lalr.NotLRkError if the grammar
// isn't LR(k) for any k.
func BuildLALR1(g grammar.Grammar) (*ParserTable, error) {
	tg, err := grammar.BuildTagged(g)
	if err != nil {
		return nil, &BuildError{Err: err}
	}

	lr0 := automaton.BuildLR0Collection(tg)
	la, err := lalr.ComputeLA(tg, lr0)
	if err != nil {
		return nil, &BuildError{Err: err}
	}

	return buildFromLR0(tg, lr0, func(state automaton.StateID, prodIdx int) util.IntSet {
		return la[lalr.ReductionKey{State: state, Production: prodIdx}]
	})
}

// BuildLR1 constructs the canonical LR(1) table, the strongest (and most
// state-hungry) of the four: a completed item's lookahead is whatever it
// accumulated during closure in its own state, with no merging across
// states that share a kernel but differ on lookahead (spec §4.E).
func BuildLR1(g grammar.Grammar) (*ParserTable, error) {
	tg, err := grammar.BuildTagged(g)
	if err != nil {
		return nil, &BuildError{Err: err}
	}

	coll := automaton.BuildLR1Collection(tg)
	t := &ParserTable{
		Grammar:     tg,
		Start:       coll.Start,
		NumStates:   len(coll.States),
		Action:      map[automaton.TerminalTransition]ActionSet{},
		Goto:        map[automaton.NonterminalTransition]automaton.StateID{},
		Diagnostics: newDiagnostics(),
	}

	addShiftsAndGotos(t, coll, len(coll.States))

	for _, st := range coll.States {
		for core, la := range st.Items {
			if !core.AtEnd(tg) {
				continue
			}
			if isAcceptItem(core) {
				addAction(t, st.ID, tg.EndOfInput(), Action{Kind: Accept})
				continue
			}
			for _, term := range la.Sorted() {
				addAction(t, st.ID, grammar.TerminalTag(term), Action{Kind: Reduce, Production: core.Production})
			}
		}
	}

	finalizeDiagnostics(t)
	noteDuplicates(tg, &t.Diagnostics)
	return t, nil
}

// isAcceptItem reports whether core is the completed augmented item
// [Start' -> S.] — the sole trigger for an Accept action, always recorded
// at the EndOfInput column regardless of which lookahead strategy built the
// rest of the table (spec §4.C: this bullet sits alongside, not beneath,
// the SLR/LALR/LR1 upgrades).
func isAcceptItem(core grammar.LR0Item) bool {
	return core.Production == 0
}

// buildFromLR0 drives the shared construction used by build_lr0, build_slr1,
// and build_lalr1: all three reuse the same LR(0) canonical collection and
// differ only in which terminals a completed item reduces on.
func buildFromLR0(tg *grammar.TaggedGrammar, lr0 *automaton.LR0Collection, reduceLookahead func(state automaton.StateID, prodIdx int) util.IntSet) (*ParserTable, error) {
	t := &ParserTable{
		Grammar:     tg,
		Start:       lr0.Start,
		NumStates:   len(lr0.States),
		Action:      map[automaton.TerminalTransition]ActionSet{},
		Goto:        map[automaton.NonterminalTransition]automaton.StateID{},
		Diagnostics: newDiagnostics(),
	}

	addShiftsAndGotos(t, lr0, len(lr0.States))

	for _, st := range lr0.States {
		for _, item := range st.Items {
			if !item.AtEnd(tg) {
				continue
			}
			if isAcceptItem(item) {
				addAction(t, st.ID, tg.EndOfInput(), Action{Kind: Accept})
				continue
			}
			la := reduceLookahead(st.ID, item.Production)
			for _, term := range la.Sorted() {
				addAction(t, st.ID, grammar.TerminalTag(term), Action{Kind: Reduce, Production: item.Production})
			}
		}
	}

	finalizeDiagnostics(t)
	noteDuplicates(tg, &t.Diagnostics)
	return t, nil
}

// addShiftsAndGotos copies every transition of src straight into t: a
// transition on a terminal is a Shift action, a transition on a
// nonterminal is a GOTO entry. Two different collections never disagree on
// this part of the table — it falls straight out of automaton's
// already-deterministic transition function — so it never produces a
// conflict on its own.
func addShiftsAndGotos(t *ParserTable, src transitionSource, numStates int) {
	for s := 0; s < numStates; s++ {
		state := automaton.StateID(s)
		for sym, target := range src.Transitions(state) {
			if sym.IsTerminal() {
				addAction(t, state, sym.Terminal(), Action{Kind: Shift, State: target})
			} else {
				t.Goto[automaton.NonterminalTransition{State: state, Nonterminal: sym.Nonterminal()}] = target
			}
		}
	}
}

func addAction(t *ParserTable, state automaton.StateID, term grammar.TerminalTag, act Action) {
	key := automaton.TerminalTransition{State: state, Terminal: term}
	cell := t.Action[key]
	cell.add(act)
	t.Action[key] = cell
}

// finalizeDiagnostics walks every ACTION cell once construction is
// complete and records a ConflictRecord for each one that ended up with
// more than one action, in a deterministic (state, terminal) order.
func finalizeDiagnostics(t *ParserTable) {
	type cellKey struct {
		state automaton.StateID
		term  grammar.TerminalTag
	}
	var keys []cellKey
	for k := range t.Action {
		keys = append(keys, cellKey{k.State, k.Terminal})
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].state != keys[j].state {
			return keys[i].state < keys[j].state
		}
		return keys[i].term < keys[j].term
	})

	for _, k := range keys {
		as := t.Action[automaton.TerminalTransition{State: k.state, Terminal: k.term}]
		if !as.IsConflict() {
			continue
		}
		record := classifyConflict(t.Grammar, k.state, k.term, as.Actions)
		t.Diagnostics.addConflict(record)
	}
}

// noteDuplicates folds grammar.TaggedGrammar.DuplicateProductions into
// Diagnostics.Notes (spec §7: this module treats duplicate productions as
// worth flagging, not worth failing a build over).
func noteDuplicates(tg *grammar.TaggedGrammar, d *Diagnostics) {
	for _, dup := range tg.DuplicateProductions() {
		d.addNote((&grammarerr.DuplicateProductionError{First: dup.First, Second: dup.Second}).Error())
	}
}
