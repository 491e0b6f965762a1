package grammar

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/ultimate-pa/javacup/diag"
)

// runDiagnostics implements §4.6's post-construction sweep: it tallies how
// many times each production actually wins a cell in the final action
// table (so never_reduced can be computed), then reports unused terminals
// and non-terminals that never influence the compiled grammar at all.
func runDiagnostics(g *Grammar, m *lalrMachine, tb *tableBuilder, bag *diag.Bag) (unusedTerminals, unusedNonTerminals int) {
	for _, p := range g.Prods.All() {
		p.ReduceCount = 0
	}
	for _, row := range tb.action {
		for _, c := range row {
			if IsReduce(c) {
				if p := g.Prods.ByNum(ProductionNum(ActionOperand(c))); p != nil {
					p.ReduceCount++
				}
			}
		}
	}

	usedTerm := make([]bool, g.Symbols.TerminalCount())
	for _, p := range g.Prods.All() {
		for _, sym := range p.RHS {
			if sym.IsTerminal() {
				usedTerm[sym.Num().Int()] = true
			}
		}
	}
	// Findings are collected into a treeset keyed by symbol name so the
	// report reads in alphabetical order regardless of declaration order,
	// rather than the numeric order g.Symbols hands back symbols in.
	unusedTermNames := treeset.NewWith(utils.StringComparator)
	for _, t := range g.Symbols.Terminals() {
		if !usedTerm[t.Num().Int()] {
			name, _ := g.Symbols.ToText(t)
			unusedTermNames.Add(name)
		}
	}
	unusedTermNames.Each(func(_ int, name interface{}) {
		unusedTerminals++
		bag.Warn(diag.KindUnusedSymbol, -1, "terminal %v is never referenced by any production", name)
	})

	usedNonTerm := map[string]bool{}
	for _, p := range g.Prods.All() {
		for _, sym := range p.RHS {
			if sym.IsNonTerminal() {
				usedNonTerm[sym.String()] = true
			}
		}
	}
	unusedNonTermNames := treeset.NewWith(utils.StringComparator)
	for _, nt := range g.Symbols.NonTerminals() {
		hasProductions := len(g.Prods.ByLHS(nt)) > 0
		if !hasProductions || (!usedNonTerm[nt.String()] && nt != g.RealStart) {
			name, _ := g.Symbols.ToText(nt)
			unusedNonTermNames.Add(name)
		}
	}
	unusedNonTermNames.Each(func(_ int, name interface{}) {
		unusedNonTerminals++
		bag.Warn(diag.KindUnusedSymbol, -1, "non-terminal %v is never produced or never used", name)
	})

	for _, p := range g.Prods.All() {
		if p.Num == ProductionNumStart || p.IsEmbeddedAction {
			continue
		}
		if p.ReduceCount == 0 {
			bag.Warn(diag.KindNeverReduced, -1, "production %d (%v) is never reduced in the final table", p.Num, p)
		}
	}

	return unusedTerminals, unusedNonTerminals
}
