package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/lalrtab/grammar"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// LR0State is a single state of the LR(0) viable-prefix automaton: a
// kernel (the items that define the state) plus its closure (spec's
// "Kernel"/"Closure" glossary entries).
type LR0State struct {
	ID     StateID
	Kernel []grammar.LR0Item
	Items  []grammar.LR0Item
}

// LR0Collection is the canonical collection of LR(0) item sets for an
// augmented grammar (spec §4.C), along with the GOTO/shift skeleton that
// falls out of it. This is the shared backbone build_lr0, build_slr1, and
// build_lalr1 all upgrade rather than reconstruct.
type LR0Collection struct {
	States []LR0State
	Start  StateID

	trans map[StateID]map[grammar.Symbol]StateID
}

// Goto returns the state reached from s on sym, if any transition is
// defined. sym may be a terminal (a shift) or a nonterminal (a goto); the
// LR(0) skeleton doesn't distinguish the two at this layer.
func (c *LR0Collection) Goto(s StateID, sym grammar.Symbol) (StateID, bool) {
	row, ok := c.trans[s]
	if !ok {
		return 0, false
	}
	target, ok := row[sym]
	return target, ok
}

// Transitions returns every (symbol -> target state) pair leaving s, for
// callers that need to enumerate rather than probe one symbol at a time
// (the LALR engine's DirectRead does exactly this).
func (c *LR0Collection) Transitions(s StateID) map[grammar.Symbol]StateID {
	return c.trans[s]
}

// BuildLR0Collection constructs the canonical collection of LR(0) item
// sets for tg, seeded from closure({[S' -> .S]}) (spec §4.C). States are
// discovered breadth-first, via an explicit FIFO queue, and assigned IDs
// in discovery order — that order is part of the observable output (spec
// §5) so tests may depend on it.
func BuildLR0Collection(tg *grammar.TaggedGrammar) *LR0Collection {
	c := &LR0Collection{trans: map[StateID]map[grammar.Symbol]StateID{}}
	kernelIdx := map[string]StateID{}

	addState := func(kernel, items []grammar.LR0Item) StateID {
		id := StateID(len(c.States))
		c.States = append(c.States, LR0State{ID: id, Kernel: kernel, Items: items})
		kernelIdx[lr0KernelKey(kernel)] = id
		return id
	}

	startKernel := []grammar.LR0Item{{Production: 0, Dot: 0}}
	c.Start = addState(startKernel, closureLR0(tg, startKernel))

	frontier := linkedlistqueue.New()
	frontier.Enqueue(c.Start)

	for !frontier.Empty() {
		v, _ := frontier.Dequeue()
		id := v.(StateID)
		items := c.States[id].Items

		for _, sym := range nextSymbolsLR0(tg, items) {
			kernel := gotoKernelLR0(tg, items, sym)
			if len(kernel) == 0 {
				continue
			}
			key := lr0KernelKey(kernel)
			target, exists := kernelIdx[key]
			if !exists {
				target = addState(kernel, closureLR0(tg, kernel))
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

// closureLR0 saturates kernel by adding, for every item [A -> α.Bβ], the
// items [B -> .γ] for every production of B, until no more are added
// (spec §4.C, "closure").
func closureLR0(tg *grammar.TaggedGrammar, kernel []grammar.LR0Item) []grammar.LR0Item {
	seen := make(map[grammar.LR0Item]bool, len(kernel)*2)
	var result []grammar.LR0Item
	queue := append([]grammar.LR0Item{}, kernel...)

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		if seen[it] {
			continue
		}
		seen[it] = true
		result = append(result, it)

		sym, ok := it.NextSymbol(tg)
		if !ok || !sym.IsNonterminal() {
			continue
		}
		for _, idx := range tg.ProductionsFor(sym.Nonterminal()) {
			next := grammar.LR0Item{Production: idx, Dot: 0}
			if !seen[next] {
				queue = append(queue, next)
			}
		}
	}

	sort.Slice(result, func(i, j int) bool { return lr0Less(result[i], result[j]) })
	return result
}

// gotoKernelLR0 shifts the dot over sym in every item of items that has
// sym immediately after the dot, producing the kernel of the successor
// state (spec §4.C, "goto"). Closure is the caller's responsibility.
func gotoKernelLR0(tg *grammar.TaggedGrammar, items []grammar.LR0Item, sym grammar.Symbol) []grammar.LR0Item {
	seen := map[grammar.LR0Item]bool{}
	var kernel []grammar.LR0Item
	for _, it := range items {
		s, ok := it.NextSymbol(tg)
		if !ok || s != sym {
			continue
		}
		adv := it.Advance()
		if !seen[adv] {
			seen[adv] = true
			kernel = append(kernel, adv)
		}
	}
	sort.Slice(kernel, func(i, j int) bool { return lr0Less(kernel[i], kernel[j]) })
	return kernel
}

// nextSymbolsLR0 returns the distinct symbols following a dot somewhere in
// items, in a stable (Kind, Tag) order so that transition discovery order
// — and therefore new-state discovery order — is deterministic.
func nextSymbolsLR0(tg *grammar.TaggedGrammar, items []grammar.LR0Item) []grammar.Symbol {
	seen := map[grammar.Symbol]bool{}
	var out []grammar.Symbol
	for _, it := range items {
		sym, ok := it.NextSymbol(tg)
		if !ok || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return symbolLess(out[i], out[j]) })
	return out
}

func symbolLess(a, b grammar.Symbol) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Tag < b.Tag
}

func lr0Less(a, b grammar.LR0Item) bool {
	if a.Production != b.Production {
		return a.Production < b.Production
	}
	return a.Dot < b.Dot
}

func lr0KernelKey(kernel []grammar.LR0Item) string {
	var sb strings.Builder
	for _, it := range kernel {
		fmt.Fprintf(&sb, "%d:%d;", it.Production, it.Dot)
	}
	return sb.String()
}
