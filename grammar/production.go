package grammar

import (
	"crypto/sha256"
	"fmt"

	"github.com/ultimate-pa/javacup/bitset"
	"github.com/ultimate-pa/javacup/symbol"
)

// ProductionID is a content hash of a production's LHS and RHS, used to
// deduplicate structurally identical productions during grammar
// construction.
type ProductionID [32]byte

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) ProductionID {
	seq := make([]byte, 0, 2+2*len(rhs))
	seq = append(seq, byte(lhs>>8), byte(lhs))
	for _, s := range rhs {
		seq = append(seq, byte(s>>8), byte(s))
	}
	return ProductionID(sha256.Sum256(seq))
}

// ProductionNum is the dense, declaration-ordered production number used
// as the tie-break in reduce/reduce conflict resolution and as the
// REDUCE operand in the action encoding. 0 is reserved as a nil value,
// 1 is the synthetic start production.
type ProductionNum uint16

const (
	ProductionNumNil   = ProductionNum(0)
	ProductionNumStart = ProductionNum(1)
	productionNumMin   = ProductionNum(2)
)

func (n ProductionNum) Int() int { return int(n) }

// Production is a single rewritten (action-free) grammar rule, carrying
// the bookkeeping the later analysis phases attach to it.
type Production struct {
	id  ProductionID
	Num ProductionNum
	LHS symbol.Symbol
	RHS []symbol.Symbol

	// Action is the opaque reduce-action payload, passed through
	// untouched to the emission collaborator.
	Action string

	// Prec is the production's resolved precedence, used to break
	// shift/reduce ties; see resolveShiftReduce in table.go.
	Prec symbol.Precedence

	Nullable bool
	First    bitset.Set

	ReduceCount int

	// IsEmbeddedAction marks a synthetic NT$k production created by the
	// rewriter to hold a non-trailing action.
	IsEmbeddedAction bool
	// BaseProduction is the production this one was factored out of; nil
	// for ordinary productions.
	BaseProduction *Production
	// IndexOfAction is the RHS position the action occupied before
	// rewriting.
	IndexOfAction int
	// IndexOfIntermediateResult is the RHS index of the previous
	// embedded-action non-terminal, or -1 if this is the first.
	IndexOfIntermediateResult int

	// StackDepth is the number of semantic values popped on reduce,
	// excluding embedded-action intermediate results.
	StackDepth int
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*Production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("grammar: production LHS must not be nil")
	}
	for _, s := range rhs {
		if s.IsNil() {
			return nil, fmt.Errorf("grammar: production RHS must not contain a nil symbol")
		}
	}
	return &Production{
		id:                        genProductionID(lhs, rhs),
		LHS:                       lhs,
		RHS:                       rhs,
		IndexOfAction:             -1,
		IndexOfIntermediateResult: -1,
	}, nil
}

// IsEmpty reports whether the production has an empty RHS.
func (p *Production) IsEmpty() bool { return len(p.RHS) == 0 }

func (p *Production) String() string { return fmt.Sprintf("production#%d", p.Num) }

// ProductionSet is the declaration-ordered, deduplicated collection of
// every production in a grammar, indexed both by content hash and by LHS.
type ProductionSet struct {
	byID  map[ProductionID]*Production
	byLHS map[symbol.Symbol][]*Production
	ord   []*Production
	next  ProductionNum
}

func newProductionSet() *ProductionSet {
	return &ProductionSet{
		byID:  map[ProductionID]*Production{},
		byLHS: map[symbol.Symbol][]*Production{},
		next:  productionNumMin,
	}
}

// add inserts prod, assigning it a declaration-ordered number, unless a
// structurally identical production is already present, in which case the
// existing production is returned instead.
func (ps *ProductionSet) add(prod *Production) *Production {
	if existing, ok := ps.byID[prod.id]; ok {
		return existing
	}
	if prod.LHS.IsStart() {
		prod.Num = ProductionNumStart
	} else {
		prod.Num = ps.next
		ps.next++
	}
	ps.byID[prod.id] = prod
	ps.byLHS[prod.LHS] = append(ps.byLHS[prod.LHS], prod)
	ps.ord = append(ps.ord, prod)
	return prod
}

// ByLHS returns every production whose LHS is lhs, in declaration order.
func (ps *ProductionSet) ByLHS(lhs symbol.Symbol) []*Production { return ps.byLHS[lhs] }

// All returns every production in declaration order.
func (ps *ProductionSet) All() []*Production { return ps.ord }

// Len returns the number of distinct productions.
func (ps *ProductionSet) Len() int { return len(ps.ord) }

// ByNum returns the production numbered n, or nil.
func (ps *ProductionSet) ByNum(n ProductionNum) *Production {
	for _, p := range ps.ord {
		if p.Num == n {
			return p
		}
	}
	return nil
}
