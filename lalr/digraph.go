package lalr

import (
	"github.com/dekarrin/lalrtab/automaton"
	"github.com/dekarrin/lalrtab/internal/util"
)

// digraph status codes.
const (
	statusUntraversed = iota
	statusTraversing
	statusTraversed
)

// digraphSolver implements the DeRemer-Pennello "digraph" algorithm (spec
// §4.F): a single depth-first pass over a relation that computes, for every
// node x, F(x) = base(x) ∪ (union of F(y) for every y with x R y), treating
// every strongly connected component as one unit with a shared F value.
// It's the same linear-time technique Tarjan's SCC algorithm uses, adapted
// to accumulate a fixed point alongside the component discovery instead of
// just the components themselves.
//
// checkCycles, when true, reports a *NotLRkError the first time it closes a
// non-trivial component (more than one member, or a direct self-loop) whose
// members' base values have a non-empty union (the accumulated F value is
// not used for this test) — this is the Follow-pass-only check spec §4.F
// describes ("if an SCC under includes contains a node with non-empty
// Read, the grammar is not LR(k)").
type digraphSolver struct {
	relation    map[automaton.NonterminalTransition][]automaton.NonterminalTransition
	base        map[automaton.NonterminalTransition]util.IntSet
	checkCycles bool

	status map[automaton.NonterminalTransition]int
	depth  map[automaton.NonterminalTransition]int // doubles as low-link once a call returns
	result map[automaton.NonterminalTransition]util.IntSet
	stack  []automaton.NonterminalTransition
}

func newDigraphSolver(relation map[automaton.NonterminalTransition][]automaton.NonterminalTransition, base map[automaton.NonterminalTransition]util.IntSet, checkCycles bool) *digraphSolver {
	return &digraphSolver{
		relation:    relation,
		base:        base,
		checkCycles: checkCycles,
		status:      map[automaton.NonterminalTransition]int{},
		depth:       map[automaton.NonterminalTransition]int{},
		result:      map[automaton.NonterminalTransition]util.IntSet{},
	}
}

// solve runs traverse from every node in nodes that hasn't been visited
// yet, and returns the resulting F map.
func (s *digraphSolver) solve(nodes []automaton.NonterminalTransition) (map[automaton.NonterminalTransition]util.IntSet, error) {
	for _, x := range nodes {
		if s.status[x] == statusUntraversed {
			if err := s.traverse(x); err != nil {
				return nil, err
			}
		}
	}
	return s.result, nil
}

func (s *digraphSolver) traverse(x automaton.NonterminalTransition) error {
	s.stack = append(s.stack, x)
	d := len(s.stack)
	s.depth[x] = d
	s.status[x] = statusTraversing

	f := s.base[x].Copy()
	low := d

	for _, y := range s.relation[x] {
		switch s.status[y] {
		case statusUntraversed:
			if err := s.traverse(y); err != nil {
				return err
			}
			if s.depth[y] < low {
				low = s.depth[y]
			}
		case statusTraversing:
			if s.depth[y] < low {
				low = s.depth[y]
			}
		}
		// status == statusTraversed: y belongs to an earlier, already-
		// closed component reached by a cross edge. Its F value is final
		// and safe to fold in, but its stale depth must never move our
		// low-link — that depth number was a stack position from a
		// different, already-collapsed frame of the same DFS and could
		// coincidentally be smaller than ours without y lying on any path
		// back up to x.
		f = f.Union(s.result[y])
	}

	s.depth[x] = low

	if low != d {
		// x is not the root of its component; its final F value is
		// assigned uniformly when the root closes below.
		s.result[x] = f
		return nil
	}

	var scc []automaton.NonterminalTransition
	for {
		n := len(s.stack) - 1
		top := s.stack[n]
		s.stack = s.stack[:n]
		s.status[top] = statusTraversed
		scc = append(scc, top)
		if top == x {
			break
		}
	}
	for _, member := range scc {
		s.result[member] = f
	}

	if s.checkCycles {
		// spec §8 property 8 phrases the trigger as "the union of Read over
		// the component", i.e. the scc's own base values — not f, which by
		// this point may also carry Follow contributions folded in from
		// unrelated, already-closed components reached by a cross edge (see
		// the statusTraversed case above). Using f directly would flag a
		// cycle as non-LR(k) merely because it happens to reach some
		// unrelated non-empty Follow set, not because the cycle itself
		// needs unbounded lookahead.
		readUnion := util.IntSet{}
		for _, member := range scc {
			readUnion = readUnion.Union(s.base[member])
		}

		if readUnion.Len() > 0 {
			cyclic := len(scc) > 1
			if !cyclic {
				for _, y := range s.relation[x] {
					if y == x {
						cyclic = true
						break
					}
				}
			}
			if cyclic {
				return &NotLRkError{Trans: x}
			}
		}
	}

	return nil
}
