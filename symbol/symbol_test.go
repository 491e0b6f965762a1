package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableReservesEOFAndStart(t *testing.T) {
	tab := NewTable()

	eof, ok := tab.ToSymbol("$EOF")
	require.True(t, ok)
	assert.Equal(t, EOF, eof)
	assert.True(t, eof.IsTerminal())
	assert.True(t, eof.IsEOF())

	start, ok := tab.ToSymbol("$START")
	require.True(t, ok)
	assert.Equal(t, Start, start)
	assert.True(t, start.IsNonTerminal())
	assert.True(t, start.IsStart())

	errSym, ok := tab.ToSymbol("error")
	require.True(t, ok)
	assert.Equal(t, Error, errSym)
	assert.True(t, errSym.IsTerminal())
	assert.True(t, errSym.IsError())
	assert.False(t, errSym.IsEOF())
}

func TestRegisterTerminalIsIdempotent(t *testing.T) {
	tab := NewTable()

	a, err := tab.RegisterTerminal("PLUS", "", NoPrecedence)
	require.NoError(t, err)

	b, err := tab.RegisterTerminal("PLUS", "", NoPrecedence)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 4, tab.TerminalCount()) // unused slot 0, EOF, error, PLUS
}

func TestRegisterNonTerminalAssignsDenseNumbers(t *testing.T) {
	tab := NewTable()

	expr, err := tab.RegisterNonTerminal("expr", "Expr")
	require.NoError(t, err)
	term, err := tab.RegisterNonTerminal("term", "Expr")
	require.NoError(t, err)

	assert.NotEqual(t, expr.Num(), term.Num())
	assert.True(t, expr.IsNonTerminal())
	assert.False(t, expr.IsStart())
}

func TestTerminalPrecedenceRoundTrips(t *testing.T) {
	tab := NewTable()
	prec := Precedence{Level: 3, Assoc: AssocLeft}

	plus, err := tab.RegisterTerminal("PLUS", "", prec)
	require.NoError(t, err)

	assert.Equal(t, prec, tab.TerminalPrecedence(plus))
	assert.True(t, tab.TerminalPrecedence(plus).Defined())
}

func TestUndeclaredTerminalHasNoPrecedence(t *testing.T) {
	tab := NewTable()
	star, err := tab.RegisterTerminal("STAR", "", NoPrecedence)
	require.NoError(t, err)

	assert.False(t, tab.TerminalPrecedence(star).Defined())
}

func TestTerminalsAndNonTerminalsExcludeReservedSymbols(t *testing.T) {
	tab := NewTable()
	_, err := tab.RegisterTerminal("PLUS", "", NoPrecedence)
	require.NoError(t, err)
	_, err = tab.RegisterNonTerminal("expr", "")
	require.NoError(t, err)

	for _, s := range tab.Terminals() {
		assert.False(t, s.IsEOF())
	}
	for _, s := range tab.NonTerminals() {
		assert.False(t, s.IsStart())
	}
}
