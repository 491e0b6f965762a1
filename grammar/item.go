package grammar

import (
	"strconv"

	"github.com/ultimate-pa/javacup/bitset"
	"github.com/ultimate-pa/javacup/symbol"
)

// Item is a value type pairing a production with a dot position, per the
// GLOSSARY definition. Two items are equal exactly when their production
// and dot position are equal, which Go's struct equality already gives us
// for free since every production is interned exactly once by a
// ProductionSet and compared by pointer identity.
type Item struct {
	Prod *Production
	Dot  int
}

// Hash mirrors the data model's "cached hash is derived from
// 31*prod_index + dot", used as the bucket key when building a kernel's
// canonical signature.
func (it Item) Hash() uint32 { return uint32(it.Prod.Num)*31 + uint32(it.Dot) }

// SymbolAfterDot returns the RHS symbol immediately after the dot, or
// (Nil, false) if the dot is at the end.
func (it Item) SymbolAfterDot() (symbol.Symbol, bool) {
	if it.Dot >= len(it.Prod.RHS) {
		return symbol.Nil, false
	}
	return it.Prod.RHS[it.Dot], true
}

// DotAtEnd reports whether the dot has reached the end of the RHS, i.e.
// this item proposes a reduction.
func (it Item) DotAtEnd() bool { return it.Dot >= len(it.Prod.RHS) }

// ShiftCore returns the item with the dot advanced by one. Go values are
// cheap enough that no explicit per-item memo table is needed to satisfy
// the Design Notes' "small per-item cache" suggestion; callers that shift
// the same item repeatedly (closure, successor construction) simply
// recompute this O(1) value.
func (it Item) ShiftCore() Item { return Item{Prod: it.Prod, Dot: it.Dot + 1} }

// IsKernelItem reports whether it belongs in a kernel: either its dot has
// advanced past the first symbol, or it is the distinguished start item
// $START ::= · RealStart.
func (it Item) IsKernelItem() bool {
	return it.Dot > 0 || it.Prod.LHS.IsStart()
}

func (it Item) String() string {
	return it.Prod.String() + "@" + strconv.Itoa(it.Dot)
}

// calcLookahead returns FIRST(β[dot..]) for an item [A ::= β], applying
// the nullable-prefix rules of §4.2.
func calcLookahead(g *Grammar, it Item) bitset.Set {
	return firstOfSequence(it.Prod.RHS, it.Dot, g.first, g.nullable, g.Symbols.TerminalCount())
}

// isNullable reports whether every symbol from the dot onward in it is
// nullable, i.e. whether the lookahead a closing item carries must also
// flow into items its closure produces.
func isNullable(g *Grammar, it Item) bool {
	return isNullableSuffix(it.Prod.RHS, it.Dot, g.nullable)
}
