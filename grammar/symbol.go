package grammar

import "fmt"

// SymbolKind distinguishes a tagged Symbol's two flavors.
type SymbolKind int

const (
	// Term marks a Symbol as a terminal tag.
	Term SymbolKind = iota
	// NonTerm marks a Symbol as a nonterminal tag.
	NonTerm
)

func (k SymbolKind) String() string {
	if k == Term {
		return "term"
	}
	return "nonterm"
}

// TerminalTag is a dense, per-build integer identifying a terminal symbol.
// Tags are assigned by BuildTagged in first-seen order; they carry no
// meaning across separate builds.
type TerminalTag int

// NonterminalTag is a dense, per-build integer identifying a nonterminal
// symbol. Tags are assigned by BuildTagged in first-seen order.
type NonterminalTag int

// Symbol is a tagged variant over a terminal or nonterminal tag. Every
// production right-hand side and every LR item's "next symbol" is a
// Symbol; downstream code (automaton, lalr, table) never looks at symbol
// names, only at Kind and Tag.
type Symbol struct {
	Kind SymbolKind
	Tag  int
}

// T builds a terminal Symbol from a TerminalTag.
func T(t TerminalTag) Symbol { return Symbol{Kind: Term, Tag: int(t)} }

// NT builds a nonterminal Symbol from a NonterminalTag.
func NT(n NonterminalTag) Symbol { return Symbol{Kind: NonTerm, Tag: int(n)} }

// IsTerminal reports whether sym is a terminal.
func (sym Symbol) IsTerminal() bool { return sym.Kind == Term }

// IsNonterminal reports whether sym is a nonterminal.
func (sym Symbol) IsNonterminal() bool { return sym.Kind == NonTerm }

// Terminal returns sym's tag as a TerminalTag. Only meaningful if
// sym.IsTerminal().
func (sym Symbol) Terminal() TerminalTag { return TerminalTag(sym.Tag) }

// Nonterminal returns sym's tag as a NonterminalTag. Only meaningful if
// sym.IsNonterminal().
func (sym Symbol) Nonterminal() NonterminalTag { return NonterminalTag(sym.Tag) }

func (sym Symbol) String() string {
	return fmt.Sprintf("%s#%d", sym.Kind, sym.Tag)
}
