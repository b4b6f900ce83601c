package grammar

import "github.com/dekarrin/lalrtab/internal/util"

// Nullable computes, for every nonterminal, whether it derives the empty
// string (spec §4.B): A is nullable iff some production A -> α has every
// symbol of α nullable, with an empty α trivially nullable. Computed by
// fixed point: iterate over every production, and mark its LHS nullable as
// soon as one alternative is found whose RHS is entirely nullable symbols;
// repeat until a full pass adds nothing new.
func (tg *TaggedGrammar) Nullable() map[NonterminalTag]bool {
	nullable := make(map[NonterminalTag]bool, tg.NumNonterminals())

	changed := true
	for changed {
		changed = false
		for _, p := range tg.productions {
			if p.Index == 0 {
				continue // S' never appears on any RHS, so its nullability is never queried
			}
			if nullable[p.LHS] {
				continue
			}
			if allNullableInSlice(p, 0, len(p.RHS), nullable) {
				nullable[p.LHS] = true
				changed = true
			}
		}
	}

	return nullable
}

// AllNullable reports whether every symbol of seq is a nullable
// nonterminal (true for an empty seq). Exported for the LALR engine's
// includes-relation builder (spec §4.F: "a production B -> β A γ with γ
// entirely nullable").
func AllNullable(seq []Symbol, nullable map[NonterminalTag]bool) bool {
	for _, sym := range seq {
		if sym.IsTerminal() {
			return false
		}
		if !nullable[sym.Nonterminal()] {
			return false
		}
	}
	return true
}

// allNullableInSlice reports whether every symbol of p.RHS[lo:hi] is a
// nullable nonterminal; any terminal in the slice forces false, and an
// empty slice is trivially true (spec §4.B, "all_nullable_in_slice").
func allNullableInSlice(p Production, lo, hi int, nullable map[NonterminalTag]bool) bool {
	for i := lo; i < hi; i++ {
		sym := p.RHS[i]
		if sym.IsTerminal() {
			return false
		}
		if !nullable[sym.Nonterminal()] {
			return false
		}
	}
	return true
}

// FirstSets computes FIRST(A) for every nonterminal at once, by fixed
// point: repeatedly union in FIRST of every production's RHS until a full
// pass adds nothing new (spec §4.B). Unlike a direct per-symbol recursive
// walk, this terminates on left- or mutually-recursive nonterminals (e.g.
// Grammar 3.20's "L -> L,S") since a nonterminal's own FIRST set is just
// another fixed-point accumulator, never re-derived by calling back into
// itself.
func (tg *TaggedGrammar) FirstSets(nullable map[NonterminalTag]bool) map[NonterminalTag]util.IntSet {
	first := make(map[NonterminalTag]util.IntSet, tg.NumNonterminals())
	for _, nt := range tg.Nonterminals() {
		first[nt] = util.IntSet{}
	}

	changed := true
	for changed {
		changed = false
		for _, p := range tg.productions {
			for _, sym := range p.RHS {
				if sym.IsTerminal() {
					if !first[p.LHS].Has(int(sym.Terminal())) {
						first[p.LHS].Add(int(sym.Terminal()))
						changed = true
					}
					break
				}
				nt := sym.Nonterminal()
				if first[p.LHS].AddedFrom(first[nt]) {
					changed = true
				}
				if !nullable[nt] {
					break
				}
			}
		}
	}

	return first
}

// FirstOfSequence computes FIRST of a sequence of grammar symbols against
// an already-computed FirstSets table, honoring nullability: it walks the
// sequence left to right, collecting FIRST of each symbol and stopping as
// soon as it hits one that isn't nullable. The second return value reports
// whether the whole sequence is nullable (every symbol nullable, or the
// sequence is empty) — needed by closures and FOLLOW alike, since spec
// §4.E builds first(βt) by appending the lookahead terminal t as a
// trailing symbol and calling this directly: t is never nullable, so the
// walk always terminates there if β is fully nullable.
func (tg *TaggedGrammar) FirstOfSequence(seq []Symbol, firstSets map[NonterminalTag]util.IntSet, nullable map[NonterminalTag]bool) (util.IntSet, bool) {
	first := util.IntSet{}
	for _, sym := range seq {
		if sym.IsTerminal() {
			first.Add(int(sym.Terminal()))
			return first, false
		}
		nt := sym.Nonterminal()
		first.AddAll(firstSets[nt])
		if !nullable[nt] {
			return first, false
		}
	}
	return first, true
}

// First returns FIRST(A) for a single nonterminal tag out of an
// already-computed FirstSets table. Compute firstSets once per grammar
// build and reuse it across calls rather than recomputing the whole-grammar
// fixed point per nonterminal looked up.
func (tg *TaggedGrammar) First(nt NonterminalTag, firstSets map[NonterminalTag]util.IntSet) util.IntSet {
	return firstSets[nt]
}

// Follow computes FOLLOW(A) for every nonterminal by fixed point (spec
// §4.B): FOLLOW(S') = {$}, and for every production B -> αAβ, FOLLOW(A)
// gains FIRST(β) (minus nothing, since FIRST never contains ε in this
// tagged representation — nullability of β is tracked separately) and, if
// β is nullable (or empty), FOLLOW(A) also gains FOLLOW(B).
func (tg *TaggedGrammar) Follow(nullable map[NonterminalTag]bool) map[NonterminalTag]util.IntSet {
	firstSets := tg.FirstSets(nullable)

	follow := make(map[NonterminalTag]util.IntSet, tg.NumNonterminals())
	for _, nt := range tg.Nonterminals() {
		follow[nt] = util.IntSet{}
	}
	follow[tg.startPrime].Add(int(tg.endOfInput))

	changed := true
	for changed {
		changed = false
		for _, p := range tg.productions {
			for i, sym := range p.RHS {
				if !sym.IsNonterminal() {
					continue
				}
				A := sym.Nonterminal()
				beta := p.RHS[i+1:]

				firstBeta, betaNullable := tg.FirstOfSequence(beta, firstSets, nullable)
				if follow[A].AddedFrom(firstBeta) {
					changed = true
				}
				if betaNullable {
					if follow[A].AddedFrom(follow[p.LHS]) {
						changed = true
					}
				}
			}
		}
	}

	return follow
}
