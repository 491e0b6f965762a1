package grammar

import (
	"github.com/ultimate-pa/javacup/diag"
	"github.com/ultimate-pa/javacup/symbol"
)

// Action encoding, bit-exact per §3/§6: ERROR=0, odd=SHIFT, positive
// even=REDUCE. A single (c-1)>>1 recovers the operand for both kinds
// since REDUCE(p)=2p+2 is always one more than an odd number.
const ActionError = 0

// EncodeShift returns the action code for shifting into targetState.
func EncodeShift(targetState int) int { return 2*targetState + 1 }

// EncodeReduce returns the action code for reducing by production prod.
func EncodeReduce(prod int) int { return 2*prod + 2 }

// IsShift reports whether c encodes a shift.
func IsShift(c int) bool { return c&1 == 1 }

// IsReduce reports whether c encodes a reduce.
func IsReduce(c int) bool { return c != 0 && c&1 == 0 }

// ActionOperand recovers the shift target or reduce production index
// encoded in a non-ERROR action code.
func ActionOperand(c int) int { return (c - 1) >> 1 }

// tableBuilder fills the dense action/goto tables for every state and
// resolves the conflicts that arise while doing so, per §4.4.
type tableBuilder struct {
	g *Grammar
	m *lalrMachine

	action     [][]int // [state][terminal index] -> action code
	reduceGoto [][]int // [state][non-terminal index] -> successor+1, 0 = absent

	conflicts int
}

func newTableBuilder(g *Grammar, m *lalrMachine) *tableBuilder {
	ns, nt, nn := len(m.states), g.Symbols.TerminalCount(), g.Symbols.NonTerminalCount()
	action := make([][]int, ns)
	red := make([][]int, ns)
	for i := range action {
		action[i] = make([]int, nt)
		red[i] = make([]int, nn)
	}
	return &tableBuilder{g: g, m: m, action: action, reduceGoto: red}
}

// fill proposes a REDUCE action for every reducible item's lookahead set,
// a SHIFT action for every terminal transition, and a goto entry for
// every non-terminal transition, resolving collisions as they arise.
func (tb *tableBuilder) fill(bag *diag.Bag) {
	for _, s := range tb.m.states {
		for _, it := range s.items {
			if !it.DotAtEnd() {
				continue
			}
			prod := it.Prod
			la := tb.m.lookahead(s, it)
			la.Each(func(termIdx int) {
				tb.proposeReduce(bag, s.Num, termIdx, prod)
			})
		}
		for _, tr := range s.transitions {
			if tr.on.IsTerminal() {
				tb.proposeShift(bag, s.Num, tr.on.Num().Int(), tr.to)
			} else {
				tb.reduceGoto[s.Num][tr.on.Num().Int()] = tr.to + 1
			}
		}
	}
}

func (tb *tableBuilder) proposeReduce(bag *diag.Bag, state, termIdx int, prod *Production) {
	cur := tb.action[state][termIdx]
	switch {
	case cur == ActionError:
		tb.action[state][termIdx] = EncodeReduce(prod.Num.Int())
	case IsShift(cur):
		term := symbol.TerminalFromNum(symbol.Num(termIdx))
		tb.resolveShiftReduce(bag, state, termIdx, term, ActionOperand(cur), prod)
	default: // reduce/reduce
		existing := tb.g.Prods.ByNum(ProductionNum(ActionOperand(cur)))
		tb.conflicts++
		term := symbol.TerminalFromNum(symbol.Num(termIdx))
		winner := existing
		if prod.Num < existing.Num {
			winner = prod
		}
		bag.Error(diag.KindReduceReduceConflict, state,
			"reduce/reduce conflict on %v between production %d and %d; keeping the lower-indexed production %d",
			term, existing.Num, prod.Num, winner.Num)
		tb.action[state][termIdx] = EncodeReduce(winner.Num.Int())
	}
}

func (tb *tableBuilder) proposeShift(bag *diag.Bag, state, termIdx, target int) {
	cur := tb.action[state][termIdx]
	switch {
	case cur == ActionError:
		tb.action[state][termIdx] = EncodeShift(target)
	case IsShift(cur):
		// Deterministic LALR construction never proposes two distinct
		// shifts for the same (state, terminal); nothing to resolve.
	default:
		existing := tb.g.Prods.ByNum(ProductionNum(ActionOperand(cur)))
		term := symbol.TerminalFromNum(symbol.Num(termIdx))
		tb.resolveShiftReduce(bag, state, termIdx, term, target, existing)
	}
}

// resolveShiftReduce implements the standard yacc-style precedence table:
// higher level wins; a tie is broken by LEFT/RIGHT/NONASSOC; an undefined
// precedence favors shift. See DESIGN.md for the rationale.
func (tb *tableBuilder) resolveShiftReduce(bag *diag.Bag, state, termIdx int, term symbol.Symbol, shiftTarget int, reduceProd *Production) {
	termPrec := tb.g.Symbols.TerminalPrecedence(term)
	prodPrec := reduceProd.Prec

	// Every shift/reduce collision counts toward the conflict budget, even
	// one a precedence declaration resolves outright without a report —
	// mirroring the classic yacc/bison behavior of always printing "N
	// shift/reduce conflicts" so a grammar author can pin expected_conflicts
	// to a number that includes their own intentional precedence table.
	tb.conflicts++

	if termPrec.Defined() && prodPrec.Defined() {
		switch {
		case termPrec.Level > prodPrec.Level:
			tb.action[state][termIdx] = EncodeShift(shiftTarget)
			return
		case termPrec.Level < prodPrec.Level:
			tb.action[state][termIdx] = EncodeReduce(reduceProd.Num.Int())
			return
		default:
			switch termPrec.Assoc {
			case symbol.AssocLeft:
				tb.action[state][termIdx] = EncodeReduce(reduceProd.Num.Int())
				return
			case symbol.AssocRight:
				tb.action[state][termIdx] = EncodeShift(shiftTarget)
				return
			case symbol.AssocNonAssoc:
				tb.action[state][termIdx] = ActionError
				bag.Error(diag.KindNonassocConflict, state,
					"%v: terminal %v against production %d; action set to error",
					errNonassocConflict, term, reduceProd.Num)
				return
			}
		}
	}

	tb.action[state][termIdx] = EncodeShift(shiftTarget)
	bag.Warn(diag.KindShiftReduceConflict, state,
		"shift/reduce conflict on %v resolved in favor of shift over production %d", term, reduceProd.Num)
}
