package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultimate-pa/javacup/diag"
	"github.com/ultimate-pa/javacup/symbol"
)

func TestActionEncodingRoundTrips(t *testing.T) {
	assert.Equal(t, ActionError, 0)
	assert.False(t, IsShift(ActionError))
	assert.False(t, IsReduce(ActionError))

	for _, target := range []int{0, 1, 7, 200} {
		c := EncodeShift(target)
		assert.True(t, IsShift(c))
		assert.False(t, IsReduce(c))
		assert.Equal(t, target, ActionOperand(c))
	}

	for _, p := range []int{0, 1, 7, 200} {
		c := EncodeReduce(p)
		assert.True(t, IsReduce(c))
		assert.False(t, IsShift(c))
		assert.Equal(t, p, ActionOperand(c))
	}
}

func TestNonassocConflictIsReportedAndSetToError(t *testing.T) {
	// expr -> expr CMP expr | NUM, with CMP declared %nonassoc: chained
	// comparisons like a CMP b CMP c must be rejected, not silently
	// resolved toward either shift or reduce.
	input := GrammarInput{
		Terminals:    []TerminalInput{termPrec("CMP", 1, symbol.AssocNonAssoc), term("NUM")},
		NonTerminals: []NonTerminalInput{nt("expr")},
		Start:        "expr",
		Productions: []ProductionInput{
			prod("expr", "expr", "CMP", "expr"),
			prod("expr", "NUM"),
		},
	}
	bag := diag.NewBag()
	tables, err := Compile(input, bag, WithExpectedConflicts(1))
	require.NoError(t, err)
	require.Equal(t, 1, tables.NumConflicts)

	var found bool
	for _, f := range bag.Findings() {
		if f.Kind == diag.KindNonassocConflict {
			found = true
		}
	}
	assert.True(t, found)
}
