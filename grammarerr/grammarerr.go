// Package grammarerr holds the structural-error taxonomy for grammar
// tagging and validation (spec §7, "GrammarError"). These are always fatal:
// a caller who gets one back has a grammar value that cannot be built into
// a parser table at all, as opposed to a conflict, which is recorded in
// Diagnostics instead of being returned as an error.
package grammarerr

import "fmt"

// UndefinedSymbolError is returned when a production's right-hand side (or
// a rule's left-hand side) names a symbol that was never declared as a
// terminal or nonterminal. An undeclared start symbol is reported as a
// NoStartSymbolError instead.
type UndefinedSymbolError struct {
	Name string
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("grammar references undefined symbol %q", e.Name)
}

// NoStartSymbolError is returned when a grammar has no start symbol, or
// names a start symbol that isn't among its declared nonterminals.
type NoStartSymbolError struct {
	Name string
}

func (e *NoStartSymbolError) Error() string {
	if e.Name == "" {
		return "grammar has no start symbol"
	}
	return fmt.Sprintf("grammar start symbol %q is not a declared nonterminal", e.Name)
}

// NoProductionsError is returned when a grammar has no production rules at
// all (or no declared terminals, which makes every language it could
// describe empty).
type NoProductionsError struct {
	Reason string
}

func (e *NoProductionsError) Error() string {
	return fmt.Sprintf("grammar has no usable productions: %s", e.Reason)
}

// DuplicateProductionError notes that productions at the two given indices
// are syntactically identical (same LHS, same RHS). Spec §7 allows this to
// be treated as either a fatal error or a warning; this module treats it as
// a warning surfaced via Diagnostics.Notes (see table.Diagnostics), but the
// type lives here so that policy could be flipped to fatal without moving
// the type between packages.
type DuplicateProductionError struct {
	First, Second int
}

func (e *DuplicateProductionError) Error() string {
	return fmt.Sprintf("production %d duplicates production %d", e.Second, e.First)
}
