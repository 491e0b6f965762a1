package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultimate-pa/javacup/bitset"
	"github.com/ultimate-pa/javacup/diag"
	"github.com/ultimate-pa/javacup/symbol"
)

func TestComputeNullableAndFirstOnArithmeticGrammar(t *testing.T) {
	bag := diag.NewBag()
	g, err := Build(arithmeticGrammar(), bag)
	require.NoError(t, err)
	require.NoError(t, rewrite(g, bag))
	computeNullableAndFirst(g)

	expr, ok := g.Symbols.ToSymbol("expr")
	require.True(t, ok)
	num, ok := g.Symbols.ToSymbol("NUM")
	require.True(t, ok)
	lparen, ok := g.Symbols.ToSymbol("LPAREN")
	require.True(t, ok)

	assert.False(t, g.nullable[expr], "expr has no empty production")
	assert.True(t, g.first[expr].Has(num.Num().Int()))
	assert.True(t, g.first[expr].Has(lparen.Num().Int()))
}

func TestIsNullableSuffixVacuouslyTrueForEmptySuffix(t *testing.T) {
	nullable := map[symbol.Symbol]bool{}
	assert.True(t, isNullableSuffix(nil, 0, nullable))
}

func TestIsNullableSuffixFalseWhenTerminalPresent(t *testing.T) {
	tab := symbol.NewTable()
	a, err := tab.RegisterTerminal("A", "", symbol.NoPrecedence)
	require.NoError(t, err)
	nullable := map[symbol.Symbol]bool{}
	assert.False(t, isNullableSuffix([]symbol.Symbol{a}, 0, nullable))
}

func TestFirstOfSequenceStopsAtFirstNonNullableSymbol(t *testing.T) {
	tab := symbol.NewTable()
	a, err := tab.RegisterTerminal("A", "", symbol.NoPrecedence)
	require.NoError(t, err)
	b, err := tab.RegisterTerminal("B", "", symbol.NoPrecedence)
	require.NoError(t, err)
	nt1, err := tab.RegisterNonTerminal("NT", "")
	require.NoError(t, err)

	n := tab.TerminalCount()
	first := map[symbol.Symbol]bitset.Set{nt1: bitset.New(n)}
	first[nt1].Add(b.Num().Int())
	nullable := map[symbol.Symbol]bool{} // NT is not nullable

	// Scanning [NT, A]: NT's FIRST is merged in, but since NT is not
	// nullable scanning must stop there and never reach A.
	result := firstOfSequence([]symbol.Symbol{nt1, a}, 0, first, nullable, n)
	assert.True(t, result.Has(b.Num().Int()))
	assert.False(t, result.Has(a.Num().Int()))
}

func TestFirstOfSequenceContinuesPastNullableNonTerminal(t *testing.T) {
	tab := symbol.NewTable()
	a, err := tab.RegisterTerminal("A", "", symbol.NoPrecedence)
	require.NoError(t, err)
	nt1, err := tab.RegisterNonTerminal("NT", "")
	require.NoError(t, err)

	n := tab.TerminalCount()
	first := map[symbol.Symbol]bitset.Set{nt1: bitset.New(n)}
	nullable := map[symbol.Symbol]bool{nt1: true}

	result := firstOfSequence([]symbol.Symbol{nt1, a}, 0, first, nullable, n)
	assert.True(t, result.Has(a.Num().Int()), "a nullable leading non-terminal must not block A from FIRST")
}
