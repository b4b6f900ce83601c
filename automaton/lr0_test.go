package automaton

import (
	"testing"

	"github.com/dekarrin/lalrtab/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grammar323 is Appel's "E -> T+E | T, T -> x": LR(0) has a shift/reduce
// conflict in the state reached after a lone T, resolved by SLR's
// FOLLOW(E)-restricted reduce (spec §8, "Grammar 3.23").
func grammar323(t *testing.T) *grammar.TaggedGrammar {
	t.Helper()
	g := grammar.Grammar{
		Terminals:    []string{"x", "+"},
		Nonterminals: []string{"E", "T"},
		Start:        "E",
		Rules: []grammar.Rule{
			{NonTerminal: "E", RHS: []string{"T", "+", "E"}},
			{NonTerminal: "E", RHS: []string{"T"}},
			{NonTerminal: "T", RHS: []string{"x"}},
		},
	}
	tg, err := grammar.BuildTagged(g)
	require.NoError(t, err)
	return tg
}

func Test_BuildLR0Collection_StartKernel(t *testing.T) {
	tg := grammar323(t)
	coll := BuildLR0Collection(tg)

	require.NotEmpty(t, coll.States)
	start := coll.States[coll.Start]
	require.Len(t, start.Kernel, 1)
	assert.Equal(t, 0, start.Kernel[0].Production)
	assert.Equal(t, 0, start.Kernel[0].Dot)
}

func Test_BuildLR0Collection_DiscoveryOrderDeterministic(t *testing.T) {
	tg := grammar323(t)
	a := BuildLR0Collection(tg)
	b := BuildLR0Collection(tg)

	require.Equal(t, len(a.States), len(b.States))
	for i := range a.States {
		assert.Equal(t, a.States[i].Kernel, b.States[i].Kernel)
	}
}

func Test_BuildLR0Collection_HasShiftReduceConflictOnPlus(t *testing.T) {
	tg := grammar323(t)
	coll := BuildLR0Collection(tg)

	// find the state reached via goto on T from the start state: it contains
	// both a shift on '+' out of E -> T.+E and the completed item E -> T.
	startID := coll.Start
	var tGotoState StateID
	found := false
	for sym, target := range coll.Transitions(startID) {
		if sym.IsNonterminal() && tg.NontermName(sym.Nonterminal()) == "T" {
			tGotoState = target
			found = true
		}
	}
	require.True(t, found, "expected a goto on T from the start state")

	st := coll.States[tGotoState]
	hasShiftOnPlus := false
	for sym := range coll.Transitions(st.ID) {
		if sym.IsTerminal() && tg.TermName(sym.Terminal()) == "+" {
			hasShiftOnPlus = true
		}
	}
	hasCompletedReduce := false
	for _, it := range st.Items {
		if it.AtEnd(tg) && it.Production != 0 {
			hasCompletedReduce = true
		}
	}
	assert.True(t, hasShiftOnPlus)
	assert.True(t, hasCompletedReduce)
}

func Test_ClosureLR0_AddsProductionsOfNextNonterminal(t *testing.T) {
	tg := grammar323(t)
	coll := BuildLR0Collection(tg)
	start := coll.States[coll.Start]

	// closure of [S' -> .E] should add both E alternatives and, because E's
	// first alternative starts with T, T's lone alternative too.
	seenEAlt1, seenEAlt2, seenT := false, false, false
	for _, it := range start.Items {
		p := tg.Production(it.Production)
		switch {
		case tg.NontermName(p.LHS) == "E" && len(p.RHS) == 3:
			seenEAlt1 = true
		case tg.NontermName(p.LHS) == "E" && len(p.RHS) == 1:
			seenEAlt2 = true
		case tg.NontermName(p.LHS) == "T":
			seenT = true
		}
	}
	assert.True(t, seenEAlt1)
	assert.True(t, seenEAlt2)
	assert.True(t, seenT)
}
