package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/lalrtab/grammar"
	"github.com/dekarrin/lalrtab/internal/util"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// LR1State is a state of the canonical LR(1) automaton: a kernel and its
// closure, each a map from item core to merged lookahead set (spec §4.E,
// "Merge by unioning lookaheads on identical core items").
type LR1State struct {
	ID     StateID
	Kernel map[grammar.LR0Item]util.IntSet
	Items  map[grammar.LR0Item]util.IntSet
}

// LR1Collection is the canonical collection of LR(1) item sets (spec
// §4.E). Unlike LR0Collection, states here are distinguished by lookahead
// as well as core — "Canonical collection distinguishes states whose items
// agree on core but differ on lookaheads" — so this construction
// necessarily produces at least as many states as BuildLR0Collection, and
// strictly more whenever the grammar isn't already SLR(1)-equivalent to
// its LALR(1) collapse.
type LR1Collection struct {
	States []LR1State
	Start  StateID

	trans map[StateID]map[grammar.Symbol]StateID
}

// Goto returns the state reached from s on sym, if defined.
func (c *LR1Collection) Goto(s StateID, sym grammar.Symbol) (StateID, bool) {
	row, ok := c.trans[s]
	if !ok {
		return 0, false
	}
	target, ok := row[sym]
	return target, ok
}

// Transitions returns every (symbol -> target) pair leaving s.
func (c *LR1Collection) Transitions(s StateID) map[grammar.Symbol]StateID {
	return c.trans[s]
}

// BuildLR1Collection constructs the canonical collection of LR(1) item
// sets for tg, seeded from closure({[S' -> .S, {$}]}).
func BuildLR1Collection(tg *grammar.TaggedGrammar) *LR1Collection {
	nullable := tg.Nullable()
	firstSets := tg.FirstSets(nullable)

	c := &LR1Collection{trans: map[StateID]map[grammar.Symbol]StateID{}}
	kernelIdx := map[string]StateID{}

	addState := func(kernel, items map[grammar.LR0Item]util.IntSet) StateID {
		id := StateID(len(c.States))
		c.States = append(c.States, LR1State{ID: id, Kernel: kernel, Items: items})
		kernelIdx[lr1KernelKey(kernel)] = id
		return id
	}

	startKernel := map[grammar.LR0Item]util.IntSet{
		{Production: 0, Dot: 0}: util.NewIntSet(int(tg.EndOfInput())),
	}
	c.Start = addState(startKernel, closureLR1(tg, nullable, firstSets, startKernel))

	frontier := linkedlistqueue.New()
	frontier.Enqueue(c.Start)

	for !frontier.Empty() {
		v, _ := frontier.Dequeue()
		id := v.(StateID)
		items := c.States[id].Items

		for _, sym := range nextSymbolsLR1(tg, items) {
			kernel := gotoKernelLR1(tg, items, sym)
			if len(kernel) == 0 {
				continue
			}
			key := lr1KernelKey(kernel)
			target, exists := kernelIdx[key]
			if !exists {
				target = addState(kernel, closureLR1(tg, nullable, firstSets, kernel))
				frontier.Enqueue(target)
			}
			if c.trans[id] == nil {
				c.trans[id] = map[grammar.Symbol]StateID{}
			}
			c.trans[id][sym] = target
		}
	}

	return c
}

// closureLR1 saturates kernel: for every [A -> α.Bβ, L] present, add
// [B -> .γ, FIRST(βt)] for every t in L and every production B -> γ (spec
// §4.E). The fixed point is driven by an explicit "changed" flag rather
// than recursion, since new lookaheads can flow back into items already
// visited this pass.
func closureLR1(tg *grammar.TaggedGrammar, nullable map[grammar.NonterminalTag]bool, firstSets map[grammar.NonterminalTag]util.IntSet, kernel map[grammar.LR0Item]util.IntSet) map[grammar.LR0Item]util.IntSet {
	items := make(map[grammar.LR0Item]util.IntSet, len(kernel)*2)
	for core, la := range kernel {
		items[core] = la.Copy()
	}

	changed := true
	for changed {
		changed = false

		cores := make([]grammar.LR0Item, 0, len(items))
		for core := range items {
			cores = append(cores, core)
		}

		for _, core := range cores {
			la := items[core]
			sym, ok := core.NextSymbol(tg)
			if !ok || !sym.IsNonterminal() {
				continue
			}
			B := sym.Nonterminal()
			p := tg.Production(core.Production)
			beta := p.RHS[core.Dot+1:]

			seq := make([]grammar.Symbol, len(beta)+1)
			copy(seq, beta)

			for _, t := range la.Sorted() {
				seq[len(beta)] = grammar.T(grammar.TerminalTag(t))
				firstSet, _ := tg.FirstOfSequence(seq, firstSets, nullable)

				for _, idx := range tg.ProductionsFor(B) {
					next := grammar.LR0Item{Production: idx, Dot: 0}
					if _, has := items[next]; !has {
						items[next] = util.IntSet{}
					}
					if items[next].AddedFrom(firstSet) {
						changed = true
					}
				}
			}
		}
	}

	return items
}

// gotoKernelLR1 shifts the dot over sym in every item of items that has
// sym after the dot, carrying the lookahead along, and merges lookaheads
// of items that land on the same core.
func gotoKernelLR1(tg *grammar.TaggedGrammar, items map[grammar.LR0Item]util.IntSet, sym grammar.Symbol) map[grammar.LR0Item]util.IntSet {
	kernel := map[grammar.LR0Item]util.IntSet{}
	for core, la := range items {
		s, ok := core.NextSymbol(tg)
		if !ok || s != sym {
			continue
		}
		adv := core.Advance()
		if _, has := kernel[adv]; !has {
			kernel[adv] = util.IntSet{}
		}
		kernel[adv].AddAll(la)
	}
	return kernel
}

func nextSymbolsLR1(tg *grammar.TaggedGrammar, items map[grammar.LR0Item]util.IntSet) []grammar.Symbol {
	seen := map[grammar.Symbol]bool{}
	var out []grammar.Symbol
	for core := range items {
		sym, ok := core.NextSymbol(tg)
		if !ok || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return symbolLess(out[i], out[j]) })
	return out
}

func lr1KernelKey(kernel map[grammar.LR0Item]util.IntSet) string {
	cores := make([]grammar.LR0Item, 0, len(kernel))
	for c := range kernel {
		cores = append(cores, c)
	}
	sort.Slice(cores, func(i, j int) bool { return lr0Less(cores[i], cores[j]) })

	var sb strings.Builder
	for _, c := range cores {
		fmt.Fprintf(&sb, "%d:%d/", c.Production, c.Dot)
		for _, t := range kernel[c].Sorted() {
			fmt.Fprintf(&sb, "%d,", t)
		}
		sb.WriteByte(';')
	}
	return sb.String()
}
