package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultimate-pa/javacup/symbol"
)

func TestItemShiftCoreAdvancesDot(t *testing.T) {
	tab := symbol.NewTable()
	a, err := tab.RegisterTerminal("A", "", symbol.NoPrecedence)
	require.NoError(t, err)
	s, err := tab.RegisterNonTerminal("S", "")
	require.NoError(t, err)
	p, err := newProduction(s, []symbol.Symbol{a, a})
	require.NoError(t, err)
	p.Num = 2

	it := Item{Prod: p, Dot: 0}
	assert.False(t, it.DotAtEnd())
	sym, ok := it.SymbolAfterDot()
	require.True(t, ok)
	assert.Equal(t, a, sym)

	it2 := it.ShiftCore()
	assert.Equal(t, 1, it2.Dot)
	assert.False(t, it2.DotAtEnd())

	it3 := it2.ShiftCore()
	assert.True(t, it3.DotAtEnd())
	_, ok = it3.SymbolAfterDot()
	assert.False(t, ok)
}

func TestItemIsKernelItem(t *testing.T) {
	tab := symbol.NewTable()
	s, err := tab.RegisterNonTerminal("S", "")
	require.NoError(t, err)
	p, err := newProduction(s, nil)
	require.NoError(t, err)
	p.Num = 2

	nonKernel := Item{Prod: p, Dot: 0}
	assert.False(t, nonKernel.IsKernelItem())

	startProd, err := newProduction(symbol.Start, []symbol.Symbol{s})
	require.NoError(t, err)
	startProd.Num = ProductionNumStart
	startItem := Item{Prod: startProd, Dot: 0}
	assert.True(t, startItem.IsKernelItem(), "the distinguished start item is always a kernel item")
}

func TestItemHashDistinguishesProductionAndDot(t *testing.T) {
	tab := symbol.NewTable()
	a, err := tab.RegisterTerminal("A", "", symbol.NoPrecedence)
	require.NoError(t, err)
	s, err := tab.RegisterNonTerminal("S", "")
	require.NoError(t, err)
	p, err := newProduction(s, []symbol.Symbol{a, a})
	require.NoError(t, err)
	p.Num = 5

	it0 := Item{Prod: p, Dot: 0}
	it1 := Item{Prod: p, Dot: 1}
	assert.NotEqual(t, it0.Hash(), it1.Hash())
}
