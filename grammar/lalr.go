package grammar

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ultimate-pa/javacup/bitset"
	"github.com/ultimate-pa/javacup/symbol"
)

// cellID indexes into lalrMachine.cells: the arena the Design Notes call
// for, replacing the source's cyclic-object-graph lookahead cells with a
// flat vector plus explicit propagation edges.
type cellID int

type lookaheadCell struct {
	set         bitset.Set
	propagateTo []cellID
}

// transition is one outgoing edge of a state's transition list, per the
// LALR State data model ("a singly-linked list of outgoing transitions").
type transition struct {
	on symbol.Symbol
	to int
}

// lalrState is one node of the automaton: its item set (kernel union
// closure), each item's lookahead cell, and its outgoing transitions.
type lalrState struct {
	Num      int
	items    []Item
	itemCell map[Item]cellID
	transitions []transition
}

func (s *lalrState) cellOf(it Item) cellID { return s.itemCell[it] }

// lalrMachine is the complete LALR(1) automaton: every state, the shared
// lookahead-cell arena, and the kernel-hash table used to canonicalize
// states during construction.
type lalrMachine struct {
	g     *Grammar
	cells []lookaheadCell
	states []*lalrState

	kernelIndex map[string]*lalrState
	edgesSeen   map[[2]cellID]bool
}

func (m *lalrMachine) newCell() cellID {
	id := cellID(len(m.cells))
	m.cells = append(m.cells, lookaheadCell{set: bitset.New(m.g.Symbols.TerminalCount())})
	return id
}

// unionInto merges src into the cell at target and, if that grows the
// cell, eagerly walks its outgoing propagation edges — the "edges fire
// eagerly on union" discipline in §4.3's closing remark, which lets a
// single pass over the work list converge the whole (possibly cyclic)
// propagation graph without a separate fixed-point sweep.
func (m *lalrMachine) unionInto(target cellID, src bitset.Set) {
	if m.cells[target].set.Union(src) {
		for _, next := range m.cells[target].propagateTo {
			m.unionInto(next, m.cells[target].set)
		}
	}
}

// addEdgeOnce records a propagation edge from -> to (idempotently) and
// immediately pushes from's current contents across it.
func (m *lalrMachine) addEdgeOnce(from, to cellID) {
	key := [2]cellID{from, to}
	if m.edgesSeen[key] {
		return
	}
	m.edgesSeen[key] = true
	m.cells[from].propagateTo = append(m.cells[from].propagateTo, to)
	m.unionInto(to, m.cells[from].set)
}

func kernelKey(items []Item) string {
	keys := make([]uint64, len(items))
	for i, it := range items {
		keys[i] = uint64(it.Prod.Num)<<32 | uint64(uint32(it.Dot))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(strconv.FormatUint(k, 36))
		b.WriteByte(',')
	}
	return b.String()
}

// realizeKernel looks up the state whose kernel is exactly items (ignoring
// lookaheads, per the Kernel canonicalization invariant); if none exists,
// it allocates a new state and a fresh cell per item. Returns the state
// and whether it was newly created.
func (m *lalrMachine) realizeKernel(items []Item) (*lalrState, bool) {
	key := kernelKey(items)
	if s, ok := m.kernelIndex[key]; ok {
		return s, false
	}
	s := &lalrState{
		Num:      len(m.states),
		itemCell: map[Item]cellID{},
	}
	for _, it := range items {
		s.itemCell[it] = m.newCell()
		s.items = append(s.items, it)
	}
	m.states = append(m.states, s)
	m.kernelIndex[key] = s
	return s, true
}

// closure computes the LR(0)-with-lookaheads closure of a state in place,
// per §4.3 step 1, as a work-list fixed point over s.items: new items
// discovered while closing earlier items are appended and processed in
// turn, terminating once the slice stops growing.
func (m *lalrMachine) closure(s *lalrState) {
	for i := 0; i < len(s.items); i++ {
		it := s.items[i]
		B, ok := it.SymbolAfterDot()
		if !ok || B.IsTerminal() {
			continue
		}
		shifted := it.ShiftCore()
		staticLA := calcLookahead(m.g, shifted)
		needProp := isNullable(m.g, shifted)
		closingCell := s.itemCell[it]

		for _, p := range m.g.Prods.ByLHS(B) {
			newItem := Item{Prod: p, Dot: 0}
			cell, exists := s.itemCell[newItem]
			if !exists {
				cell = m.newCell()
				s.itemCell[newItem] = cell
				s.items = append(s.items, newItem)
			}
			m.unionInto(cell, staticLA)
			if needProp {
				m.addEdgeOnce(closingCell, cell)
			}
		}
	}
}

// buildSuccessors groups s's items by their dotted symbol and realizes one
// successor state per group, per §4.3 step 2, wiring propagation edges
// from each contributing item's cell to its shifted counterpart's cell in
// the successor. Newly created successors are pushed onto queue for later
// closure and successor construction.
func (m *lalrMachine) buildSuccessors(s *lalrState, queue *[]*lalrState) {
	var order []symbol.Symbol
	groups := map[symbol.Symbol][]Item{}
	for _, it := range s.items {
		sym, ok := it.SymbolAfterDot()
		if !ok {
			continue
		}
		if _, seen := groups[sym]; !seen {
			order = append(order, sym)
		}
		groups[sym] = append(groups[sym], it)
	}

	for _, X := range order {
		items := groups[X]
		kernelItems := make([]Item, len(items))
		for i, it := range items {
			kernelItems[i] = it.ShiftCore()
		}
		succ, isNew := m.realizeKernel(kernelItems)
		for i, it := range items {
			m.addEdgeOnce(s.itemCell[it], succ.itemCell[kernelItems[i]])
		}
		s.transitions = append(s.transitions, transition{on: X, to: succ.Num})
		if isNew {
			*queue = append(*queue, succ)
		}
	}
}

// buildLALRMachine constructs the complete automaton for g: a single
// initial kernel { [$START ::= · RealStart], {$EOF} }, expanded by closure
// and successor construction until the work list is exhausted.
func buildLALRMachine(g *Grammar) *lalrMachine {
	m := &lalrMachine{
		kernelIndex: map[string]*lalrState{},
		edgesSeen:   map[[2]cellID]bool{},
		g:           g,
	}

	startProd := g.Prods.ByNum(ProductionNumStart)
	startItem := Item{Prod: startProd, Dot: 0}
	s0, _ := m.realizeKernel([]Item{startItem})
	m.cells[s0.itemCell[startItem]].set.Add(symbol.EOF.Num().Int())

	queue := []*lalrState{s0}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		m.closure(s)
		m.buildSuccessors(s, &queue)
	}
	return m
}

// lookahead returns the (frozen, post-propagation) lookahead set of it in
// state s.
func (m *lalrMachine) lookahead(s *lalrState, it Item) bitset.Set {
	return m.cells[s.itemCell[it]].set
}
