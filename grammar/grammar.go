package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/lalrtab/grammarerr"
)

// EndOfInputName and StartPrimeName are the names given to the two synthetic
// symbols BuildTagged injects (spec §3, "Augmented alphabet"). They're
// reserved: a front-end grammar that declares a terminal or nonterminal
// under either name has it silently merged with the synthetic one, since
// augmentation interns these names after the declared ones and interning
// reuses an existing tag.
const (
	EndOfInputName = "$"
	StartPrimeName = "S'"
)

// Rule is a single named production rule as handed to a Grammar: a
// nonterminal and the RHS alternatives for it. It mirrors the shape
// ictiobus's grammar_test.go builds grammars from before calling
// AddRule/AddTerm, generalized to the §6 input value (Grammar{terminals,
// nonterminals, start, productions}).
type Rule struct {
	NonTerminal string
	RHS         []string
}

// Grammar is the external input value described in spec §6: plain names,
// no tagging. BuildTagged converts it into a TaggedGrammar for every
// downstream component to consume.
type Grammar struct {
	Terminals    []string
	Nonterminals []string
	Start        string
	Rules        []Rule
}

// Production is a single tagged production: LHS -> RHS, addressed only by
// Index (spec §3, "Productions are content-addressed only by index").
// Index 0 is always the synthetic augmented production; user productions
// are numbered 1..N in the order BuildTagged encountered them.
type Production struct {
	LHS   NonterminalTag
	RHS   []Symbol
	Index int
}

// Equal reports whether p and o are the same production: same Index, same
// LHS, and same RHS.
func (p Production) Equal(o Production) bool {
	if p.LHS != o.LHS || p.Index != o.Index || len(p.RHS) != len(o.RHS) {
		return false
	}
	for i := range p.RHS {
		if p.RHS[i] != o.RHS[i] {
			return false
		}
	}
	return true
}

// TaggedGrammar is the immutable, integer-tagged representation every
// component past grammar-loading operates on (spec §3, §4.A). Build one
// with BuildTagged; there is no mutation after that.
type TaggedGrammar struct {
	termTag  map[string]TerminalTag
	termName []string // index by TerminalTag

	ntTag  map[string]NonterminalTag
	ntName []string // index by NonterminalTag

	start      NonterminalTag // original (pre-augmentation) start symbol
	startPrime NonterminalTag // synthetic S'
	endOfInput TerminalTag    // synthetic $

	productions []Production // index 0 is the augmented production

	// byLHS indexes production indices by their LHS nonterminal, in
	// declaration order, for fast closure/FIRST/FOLLOW iteration.
	byLHS map[NonterminalTag][]int
}

// BuildTagged assigns dense tags to every declared terminal and
// nonterminal in g (first-seen order, per the order the slices are given
// in), injects EndOfInput and Start', and returns the resulting
// TaggedGrammar. It validates the grammar first and returns a
// *grammarerr.UndefinedSymbolError or *grammarerr.NoStartSymbolError /
// *grammarerr.NoProductionsError without building anything if g is
// malformed.
func BuildTagged(g Grammar) (*TaggedGrammar, error) {
	if len(g.Rules) == 0 {
		return nil, &grammarerr.NoProductionsError{Reason: "no rules declared"}
	}
	if len(g.Terminals) == 0 {
		return nil, &grammarerr.NoProductionsError{Reason: "no terminals declared"}
	}
	if g.Start == "" {
		return nil, &grammarerr.NoStartSymbolError{}
	}

	tg := &TaggedGrammar{
		termTag: make(map[string]TerminalTag, len(g.Terminals)+1),
		ntTag:   make(map[string]NonterminalTag, len(g.Nonterminals)+1),
		byLHS:   make(map[NonterminalTag][]int),
	}

	for _, name := range g.Terminals {
		tg.internTerm(name)
	}
	for _, name := range g.Nonterminals {
		tg.internNonterm(name)
	}

	startTag, ok := tg.ntTag[g.Start]
	if !ok {
		return nil, &grammarerr.NoStartSymbolError{Name: g.Start}
	}
	tg.start = startTag

	// tag production RHSes, rejecting undefined symbols as we go.
	for _, r := range g.Rules {
		lhsTag, ok := tg.ntTag[r.NonTerminal]
		if !ok {
			return nil, &grammarerr.UndefinedSymbolError{Name: r.NonTerminal}
		}

		rhs := make([]Symbol, 0, len(r.RHS))
		for _, symName := range r.RHS {
			if tTag, ok := tg.termTag[symName]; ok {
				rhs = append(rhs, T(tTag))
				continue
			}
			if nTag, ok := tg.ntTag[symName]; ok {
				rhs = append(rhs, NT(nTag))
				continue
			}
			return nil, &grammarerr.UndefinedSymbolError{Name: symName}
		}

		idx := len(tg.productions) + 1 // index 0 reserved for augmentation
		p := Production{LHS: lhsTag, RHS: rhs, Index: idx}
		tg.productions = append(tg.productions, p)
		tg.byLHS[lhsTag] = append(tg.byLHS[lhsTag], idx)
	}

	// now inject the synthetic symbols and the augmented production, S' ->
	// S, as production index 0 (spec §3).
	tg.endOfInput = tg.internTerm(EndOfInputName)
	tg.startPrime = tg.internNonterm(StartPrimeName)

	// The augmented production is the classical Start' -> S, not Start' -> S
	// EndOfInput: EndOfInput never appears on any production's right-hand
	// side, so Accept is recognized directly at the completed item
	// [Start' -> S.] rather than by ever shifting a literal trailing $ (spec
	// §4.C's "For the item [Start' -> S.$], record Accept" is this same
	// rule, with the "$" denoting the lookahead under consideration rather
	// than a literal trailing RHS symbol). Because $ never appears on a
	// right-hand side, it is also never shiftable, so lalr.ComputeLA cannot
	// discover it as a DirectRead by walking the automaton's transitions;
	// lalr.seedEndOfInput seeds it directly onto DirectRead(start,
	// StartSymbol) instead, which is where spec §3/§4.F's "Start' -> S $"
	// phrasing would otherwise have placed it.
	augmented := Production{
		LHS:   tg.startPrime,
		RHS:   []Symbol{NT(tg.start)},
		Index: 0,
	}
	tg.productions = append([]Production{augmented}, tg.productions...)
	// re-point byLHS indices: every user production's index grew by... no,
	// we built indices assuming 1-based already, so only add the
	// augmented index to its own bucket.
	tg.byLHS[tg.startPrime] = append([]int{0}, tg.byLHS[tg.startPrime]...)

	return tg, nil
}

// Validate runs the same structural checks BuildTagged does (undefined
// symbols, missing start symbol, empty rule/terminal sets) without keeping
// the resulting TaggedGrammar, for callers that want to check a grammar
// before committing to a full table build.
func (g Grammar) Validate() error {
	_, err := BuildTagged(g)
	return err
}

func (tg *TaggedGrammar) internTerm(name string) TerminalTag {
	if tag, ok := tg.termTag[name]; ok {
		return tag
	}
	tag := TerminalTag(len(tg.termName))
	tg.termTag[name] = tag
	tg.termName = append(tg.termName, name)
	return tag
}

func (tg *TaggedGrammar) internNonterm(name string) NonterminalTag {
	if tag, ok := tg.ntTag[name]; ok {
		return tag
	}
	tag := NonterminalTag(len(tg.ntName))
	tg.ntTag[name] = tag
	tg.ntName = append(tg.ntName, name)
	return tag
}

// StartSymbol returns the tag of g's original (pre-augmentation) start
// nonterminal.
func (tg *TaggedGrammar) StartSymbol() NonterminalTag { return tg.start }

// StartPrime returns the tag of the synthetic augmented start symbol S'.
func (tg *TaggedGrammar) StartPrime() NonterminalTag { return tg.startPrime }

// EndOfInput returns the tag of the synthetic end-of-input terminal $.
func (tg *TaggedGrammar) EndOfInput() TerminalTag { return tg.endOfInput }

// AugmentedProduction returns production index 0, S' -> S.
func (tg *TaggedGrammar) AugmentedProduction() Production { return tg.productions[0] }

// NumTerminals returns the number of distinct terminal tags, including $.
func (tg *TaggedGrammar) NumTerminals() int { return len(tg.termName) }

// NumNonterminals returns the number of distinct nonterminal tags,
// including S'.
func (tg *TaggedGrammar) NumNonterminals() int { return len(tg.ntName) }

// Terminals returns every terminal tag, including EndOfInput, in
// assignment order.
func (tg *TaggedGrammar) Terminals() []TerminalTag {
	out := make([]TerminalTag, len(tg.termName))
	for i := range tg.termName {
		out[i] = TerminalTag(i)
	}
	return out
}

// Nonterminals returns every nonterminal tag, including StartPrime, in
// assignment order.
func (tg *TaggedGrammar) Nonterminals() []NonterminalTag {
	out := make([]NonterminalTag, len(tg.ntName))
	for i := range tg.ntName {
		out[i] = NonterminalTag(i)
	}
	return out
}

// Productions returns every production, including the augmented one at
// index 0, ordered by Index.
func (tg *TaggedGrammar) Productions() []Production {
	out := make([]Production, len(tg.productions))
	copy(out, tg.productions)
	return out
}

// Production looks up a production by its index.
func (tg *TaggedGrammar) Production(index int) Production {
	return tg.productions[index]
}

// ProductionsFor returns the indices of every production whose LHS is nt,
// in declaration order (augmented production first if nt is StartPrime).
func (tg *TaggedGrammar) ProductionsFor(nt NonterminalTag) []int {
	return tg.byLHS[nt]
}

// TermName resolves a TerminalTag back to its declared name, for error
// messages and diagnostics only; no component past grammar-loading should
// need it for logic.
func (tg *TaggedGrammar) TermName(t TerminalTag) string {
	if int(t) < 0 || int(t) >= len(tg.termName) {
		return fmt.Sprintf("term#%d", t)
	}
	return tg.termName[t]
}

// NontermName resolves a NonterminalTag back to its declared name.
func (tg *TaggedGrammar) NontermName(n NonterminalTag) string {
	if int(n) < 0 || int(n) >= len(tg.ntName) {
		return fmt.Sprintf("nonterm#%d", n)
	}
	return tg.ntName[n]
}

// SymbolName resolves any tagged Symbol back to its declared name.
func (tg *TaggedGrammar) SymbolName(sym Symbol) string {
	if sym.IsTerminal() {
		return tg.TermName(sym.Terminal())
	}
	return tg.NontermName(sym.Nonterminal())
}

// ProductionString renders a production the way grammar_test.go's fixtures
// do, "LHS -> a B c", for debugging and table pretty-printing.
func (tg *TaggedGrammar) ProductionString(p Production) string {
	var sb strings.Builder
	sb.WriteString(tg.NontermName(p.LHS))
	sb.WriteString(" -> ")
	if len(p.RHS) == 0 {
		sb.WriteString("ε")
	}
	for i, sym := range p.RHS {
		if i > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteString(tg.SymbolName(sym))
	}
	return sb.String()
}

// DuplicateProductions reports pairs of production indices (both excluding
// the augmented production) that have identical LHS and RHS, per spec §7's
// optional DuplicateProductionError policy. This module treats duplicates
// as non-fatal and surfaces them as Diagnostics notes (see package table)
// rather than failing the build.
func (tg *TaggedGrammar) DuplicateProductions() []grammarerr.DuplicateProductionError {
	var dups []grammarerr.DuplicateProductionError
	for i := 1; i < len(tg.productions); i++ {
		for j := i + 1; j < len(tg.productions); j++ {
			p, q := tg.productions[i], tg.productions[j]
			q.Index = p.Index // compare LHS and RHS only
			if p.Equal(q) {
				dups = append(dups, grammarerr.DuplicateProductionError{
					First:  tg.productions[i].Index,
					Second: tg.productions[j].Index,
				})
			}
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].Second < dups[j].Second })
	return dups
}
