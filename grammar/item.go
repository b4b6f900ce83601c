package grammar

import "github.com/dekarrin/lalrtab/internal/util"

// LR0Item is a dotted production with no lookahead (spec §3, "LR item").
// Production and Dot alone are enough to identify an item, and both are
// plain ints, so LR0Item is comparable and usable directly as a map key —
// the dense-tag representation makes the string-keyed item sets ictiobus's
// grammar/item.go needs unnecessary.
type LR0Item struct {
	Production int
	Dot        int
}

// AtEnd reports whether the dot has reached the end of the production's
// RHS (i.e. this item is a candidate reduction).
func (it LR0Item) AtEnd(tg *TaggedGrammar) bool {
	return it.Dot >= len(tg.Production(it.Production).RHS)
}

// NextSymbol returns the symbol immediately after the dot, and whether
// there is one (false at end of production).
func (it LR0Item) NextSymbol(tg *TaggedGrammar) (Symbol, bool) {
	rhs := tg.Production(it.Production).RHS
	if it.Dot >= len(rhs) {
		return Symbol{}, false
	}
	return rhs[it.Dot], true
}

// Advance returns the item with the dot moved one position to the right.
// Caller must have already checked NextSymbol matches the symbol being
// shifted/goto'd over.
func (it LR0Item) Advance() LR0Item {
	return LR0Item{Production: it.Production, Dot: it.Dot + 1}
}

// String renders the item as "A -> α . β", resolving symbol names through
// tg for readability in tests and diagnostics.
func (it LR0Item) String(tg *TaggedGrammar) string {
	p := tg.Production(it.Production)
	s := tg.NontermName(p.LHS) + " -> "
	for i, sym := range p.RHS {
		if i == it.Dot {
			s += ". "
		}
		s += tg.SymbolName(sym) + " "
	}
	if it.Dot == len(p.RHS) {
		s += "."
	}
	return s
}

// LR1Item is an LR0Item carrying a lookahead set (spec §3: "L is ... the
// Set<TerminalTag> for LR1/LALR(1)"). Items sharing a core (same
// Production, same Dot) that arise during LR(1) closure are merged by
// unioning their lookahead sets rather than kept as separate items (spec
// §4.E, "Merge by unioning lookaheads on identical core items").
type LR1Item struct {
	LR0Item
	Lookahead util.IntSet
}

// Copy returns a deep copy (the lookahead set is copied, not shared).
func (it LR1Item) Copy() LR1Item {
	return LR1Item{LR0Item: it.LR0Item, Lookahead: it.Lookahead.Copy()}
}

// Equal reports whether it and o have the same core and the same
// lookahead set (spec §3: "Two items are equal iff all three components
// are equal").
func (it LR1Item) Equal(o LR1Item) bool {
	return it.LR0Item == o.LR0Item && it.Lookahead.Equal(o.Lookahead)
}

func (it LR1Item) String(tg *TaggedGrammar) string {
	s := it.LR0Item.String(tg) + ", {"
	la := it.Lookahead.Sorted()
	for i, t := range la {
		if i > 0 {
			s += "/"
		}
		s += tg.TermName(TerminalTag(t))
	}
	return s + "}"
}
