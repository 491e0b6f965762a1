package grammar

import (
	"github.com/ultimate-pa/javacup/bitset"
	"github.com/ultimate-pa/javacup/symbol"
)

// allNonTerminals returns every non-terminal the fixed points must range
// over, including the synthesized start symbol (whose own production
// $START ::= RealStart participates in both nullability and FIRST) and
// any $ACT$<n> symbols the rewriter introduced.
func allNonTerminals(g *Grammar) []symbol.Symbol {
	out := make([]symbol.Symbol, 0, g.Symbols.NonTerminalCount())
	out = append(out, symbol.Start)
	out = append(out, g.Symbols.NonTerminals()...)
	return out
}

// computeNullableAndFirst runs the two monotone fixed-point solvers
// required by §4.2 as two SEPARATE loops — nullability first, then FIRST
// (which depends on the finished nullability result) — rather than the
// single combined pass some LALR generators use. Results are cached on g
// and copied down onto each Production's Nullable/First fields.
func computeNullableAndFirst(g *Grammar) {
	g.nullable = computeNullable(g)
	g.first = computeFirst(g, g.nullable)

	for _, p := range g.Prods.All() {
		p.Nullable = isNullableSuffix(p.RHS, 0, g.nullable)
		p.First = firstOfSequence(p.RHS, 0, g.first, g.nullable, g.Symbols.TerminalCount())
	}
}

// computeNullable is fixed-point loop #1: repeat over every production
// until no non-terminal's nullability grows, marking a LHS nullable once
// some production of it has an entirely nullable (or empty) RHS.
func computeNullable(g *Grammar) map[symbol.Symbol]bool {
	nullable := map[symbol.Symbol]bool{}
	for changed := true; changed; {
		changed = false
		for _, p := range g.Prods.All() {
			if nullable[p.LHS] {
				continue
			}
			if isNullableSuffix(p.RHS, 0, nullable) {
				nullable[p.LHS] = true
				changed = true
			}
		}
	}
	return nullable
}

// computeFirst is fixed-point loop #2: repeat over every production,
// unioning the FIRST of its RHS into its LHS's FIRST set, until nothing
// grows. It only runs once nullability has fully quiesced.
func computeFirst(g *Grammar, nullable map[symbol.Symbol]bool) map[symbol.Symbol]bitset.Set {
	n := g.Symbols.TerminalCount()
	first := map[symbol.Symbol]bitset.Set{}
	for _, nt := range allNonTerminals(g) {
		first[nt] = bitset.New(n)
	}

	for changed := true; changed; {
		changed = false
		for _, p := range g.Prods.All() {
			entry := firstOfSequence(p.RHS, 0, first, nullable, n)
			if first[p.LHS].Union(entry) {
				changed = true
			}
		}
	}
	return first
}

// firstOfSequence computes FIRST(seq[d:]) by scanning left to right: a
// terminal is added and scanning stops; a non-terminal's FIRST is merged
// in and scanning continues only if that non-terminal is nullable. This
// is shared between production-level FIRST (d=0) and per-item lookahead
// computation (d=dot), per §4.2's calc_lookahead.
func firstOfSequence(seq []symbol.Symbol, d int, first map[symbol.Symbol]bitset.Set, nullable map[symbol.Symbol]bool, terminalCount int) bitset.Set {
	result := bitset.New(terminalCount)
	for i := d; i < len(seq); i++ {
		s := seq[i]
		if s.IsTerminal() {
			result.Add(s.Num().Int())
			return result
		}
		result.Union(first[s])
		if !nullable[s] {
			return result
		}
	}
	return result
}

// isNullableSuffix reports whether every symbol of seq from index d
// onward is a nullable non-terminal (vacuously true for an empty suffix).
func isNullableSuffix(seq []symbol.Symbol, d int, nullable map[symbol.Symbol]bool) bool {
	for i := d; i < len(seq); i++ {
		s := seq[i]
		if s.IsTerminal() || !nullable[s] {
			return false
		}
	}
	return true
}
