package grammar

import (
	"testing"

	"github.com/dekarrin/lalrtab/grammarerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tqklsGrammar() Grammar {
	return Grammar{
		Terminals:    []string{"p", "g", "b", "a", "q", "s", "d", "f", "m"},
		Nonterminals: []string{"S", "K", "L", "Q", "T"},
		Start:        "S",
		Rules: []Rule{
			{NonTerminal: "S", RHS: []string{"K", "L", "p"}},
			{NonTerminal: "S", RHS: []string{"g", "Q", "K"}},
			{NonTerminal: "K", RHS: []string{"b", "L", "Q", "T"}},
			{NonTerminal: "K", RHS: []string{}},
			{NonTerminal: "L", RHS: []string{"Q", "a", "K"}},
			{NonTerminal: "L", RHS: []string{"Q", "K"}},
			{NonTerminal: "L", RHS: []string{"q", "a"}},
			{NonTerminal: "Q", RHS: []string{"d", "s"}},
			{NonTerminal: "Q", RHS: []string{}},
			{NonTerminal: "T", RHS: []string{"g", "S", "f"}},
			{NonTerminal: "T", RHS: []string{"m"}},
		},
	}
}

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		g         Grammar
		expectErr bool
	}{
		{
			name:      "empty grammar",
			g:         Grammar{},
			expectErr: true,
		},
		{
			name: "no rules in grammar",
			g: Grammar{
				Terminals: []string{"int"},
			},
			expectErr: true,
		},
		{
			name: "no terminals in grammar",
			g: Grammar{
				Nonterminals: []string{"S"},
				Start:        "S",
				Rules:        []Rule{{NonTerminal: "S", RHS: []string{}}},
			},
			expectErr: true,
		},
		{
			name: "no start symbol",
			g: Grammar{
				Terminals:    []string{"int"},
				Nonterminals: []string{"S"},
				Rules:        []Rule{{NonTerminal: "S", RHS: []string{"int"}}},
			},
			expectErr: true,
		},
		{
			name: "undefined symbol in rhs",
			g: Grammar{
				Terminals:    []string{"int"},
				Nonterminals: []string{"S"},
				Start:        "S",
				Rules:        []Rule{{NonTerminal: "S", RHS: []string{"nope"}}},
			},
			expectErr: true,
		},
		{
			name: "single rule grammar",
			g: Grammar{
				Terminals:    []string{"int"},
				Nonterminals: []string{"S"},
				Start:        "S",
				Rules:        []Rule{{NonTerminal: "S", RHS: []string{"int"}}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.g.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_BuildTagged_Augmentation(t *testing.T) {
	g := Grammar{
		Terminals:    []string{"x"},
		Nonterminals: []string{"S"},
		Start:        "S",
		Rules:        []Rule{{NonTerminal: "S", RHS: []string{"x"}}},
	}

	tg, err := BuildTagged(g)
	require.NoError(t, err)

	aug := tg.AugmentedProduction()
	assert.Equal(t, tg.StartPrime(), aug.LHS)
	assert.Equal(t, []Symbol{NT(tg.StartSymbol())}, aug.RHS)
	assert.Equal(t, 0, aug.Index)

	// $ never appears on any production's right-hand side.
	for _, p := range tg.Productions() {
		for _, sym := range p.RHS {
			if sym.IsTerminal() {
				assert.NotEqual(t, tg.EndOfInput(), sym.Terminal())
			}
		}
	}
}

func Test_BuildTagged_UndefinedSymbol(t *testing.T) {
	g := Grammar{
		Terminals:    []string{"x"},
		Nonterminals: []string{"S"},
		Start:        "S",
		Rules:        []Rule{{NonTerminal: "S", RHS: []string{"y"}}},
	}

	_, err := BuildTagged(g)
	require.Error(t, err)
	assert.IsType(t, &grammarerr.UndefinedSymbolError{}, err)
}

func Test_Grammar_DuplicateProductions(t *testing.T) {
	g := Grammar{
		Terminals:    []string{"x"},
		Nonterminals: []string{"S"},
		Start:        "S",
		Rules: []Rule{
			{NonTerminal: "S", RHS: []string{"x"}},
			{NonTerminal: "S", RHS: []string{"x"}},
		},
	}

	tg, err := BuildTagged(g)
	require.NoError(t, err)

	dups := tg.DuplicateProductions()
	require.Len(t, dups, 1)
	assert.Equal(t, 1, dups[0].First)
	assert.Equal(t, 2, dups[0].Second)
}

func Test_Grammar_ProductionString(t *testing.T) {
	tg, err := BuildTagged(tqklsGrammar())
	require.NoError(t, err)

	kEpsilon := tg.ProductionsFor(tg.Nonterminals()[1])
	found := false
	for _, idx := range kEpsilon {
		p := tg.Production(idx)
		if len(p.RHS) == 0 {
			found = true
			assert.Equal(t, "K -> ε", tg.ProductionString(p))
		}
	}
	assert.True(t, found, "expected an epsilon production for K")
}
