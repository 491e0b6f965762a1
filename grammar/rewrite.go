package grammar

import (
	"fmt"

	"github.com/ultimate-pa/javacup/diag"
	"github.com/ultimate-pa/javacup/symbol"
)

// mergeAdjacentActions textually concatenates runs of back-to-back
// actions into a single action element, per §4.1's "adjacent actions are
// textually concatenated before rewriting".
func mergeAdjacentActions(rhs []rawRHSElem) []rawRHSElem {
	out := make([]rawRHSElem, 0, len(rhs))
	for _, e := range rhs {
		if e.isAction() && len(out) > 0 && out[len(out)-1].isAction() {
			out[len(out)-1].action += e.action
			continue
		}
		out = append(out, e)
	}
	return out
}

// resolvePrecedence assigns a production's precedence per §4.1: the
// explicit %prec terminal if given, otherwise the rightmost RHS terminal
// carrying a defined precedence. If RHS terminals carry more than one
// distinct precedence level and no %prec was given, this is reported as
// PRODUCTION_PRECEDENCE_AMBIGUOUS and the production is left with no
// precedence (conflicts touching it then fall to table.go's undefined-
// precedence default of "shift wins").
func resolvePrecedence(g *Grammar, rp rawProduction, bag *diag.Bag) symbol.Precedence {
	if !rp.precTerminal.IsNil() {
		return g.Symbols.TerminalPrecedence(rp.precTerminal)
	}

	var rightmost symbol.Precedence
	levelsSeen := map[int]bool{}
	for _, e := range rp.rhs {
		if e.isAction() || !e.sym.IsTerminal() {
			continue
		}
		p := g.Symbols.TerminalPrecedence(e.sym)
		if !p.Defined() {
			continue
		}
		levelsSeen[p.Level] = true
		rightmost = p
	}
	if len(levelsSeen) > 1 {
		bag.Error(diag.KindPrecedenceAmbiguous, -1,
			"%v: production with LHS %v", errAmbiguousPrecedence, rp.lhs)
		return symbol.NoPrecedence
	}
	return rightmost
}

// rewrite factors every non-trailing embedded action in g.raw into a
// synthetic empty-RHS non-terminal ($ACT$<n>), per §4.1, and populates
// g.Prods with the resulting action-free grammar.
func rewrite(g *Grammar, bag *diag.Bag) error {
	ps := newProductionSet()
	embeddedAction := map[symbol.Symbol]bool{}
	actCounter := 0

	for _, rp := range g.raw {
		prec := resolvePrecedence(g, rp, bag)
		merged := mergeAdjacentActions(rp.rhs)

		finalRHS := make([]symbol.Symbol, 0, len(merged))
		var trailingAction string
		prevIntermediate := -1
		var actProds []*Production

		for i, e := range merged {
			isLast := i == len(merged)-1
			if !e.isAction() {
				finalRHS = append(finalRHS, e.sym)
				continue
			}
			if isLast {
				trailingAction = e.action
				continue
			}

			actCounter++
			ntName := fmt.Sprintf("$ACT$%d", actCounter)
			nt, err := g.Symbols.RegisterNonTerminal(ntName, "")
			if err != nil {
				return err
			}
			embeddedAction[nt] = true

			actProd, err := newProduction(nt, nil)
			if err != nil {
				return err
			}
			actProd.Action = e.action
			actProd.IsEmbeddedAction = true
			actProd.IndexOfAction = len(finalRHS)
			actProd.IndexOfIntermediateResult = prevIntermediate
			ps.add(actProd)
			actProds = append(actProds, actProd)

			finalRHS = append(finalRHS, nt)
			prevIntermediate = len(finalRHS) - 1
		}

		prod, err := newProduction(rp.lhs, finalRHS)
		if err != nil {
			return err
		}
		prod.Action = trailingAction
		prod.Prec = prec
		prod.IndexOfAction = len(finalRHS)
		prod.IndexOfIntermediateResult = prevIntermediate

		stackDepth := 0
		for _, s := range finalRHS {
			if !embeddedAction[s] {
				stackDepth++
			}
		}
		prod.StackDepth = stackDepth

		added := ps.add(prod)
		for _, ap := range actProds {
			ap.BaseProduction = added
		}
		if added != prod {
			bag.Warn(diag.KindSymbolRedeclared, -1, "%v: LHS %v ignored", errDuplicateProduction, rp.lhs)
		}
	}

	g.Prods = ps
	return nil
}
