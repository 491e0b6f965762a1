package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultimate-pa/javacup/diag"
	"github.com/ultimate-pa/javacup/symbol"
)

func TestMergeAdjacentActionsConcatenatesRuns(t *testing.T) {
	rhs := []rawRHSElem{
		{action: "a()"},
		{action: "b()"},
		{sym: symbol.Symbol(0x8003)}, // arbitrary terminal-shaped symbol
		{action: "c()"},
		{action: "d()"},
	}
	merged := mergeAdjacentActions(rhs)
	require.Len(t, merged, 3)
	assert.Equal(t, "a()b()", merged[0].action)
	assert.True(t, merged[0].isAction())
	assert.False(t, merged[1].isAction())
	assert.Equal(t, "c()d()", merged[2].action)
}

func TestResolvePrecedenceUsesRightmostPrecedenceCarryingTerminal(t *testing.T) {
	bag := diag.NewBag()
	g, err := Build(GrammarInput{
		Terminals:    []TerminalInput{termPrec("PLUS", 1, symbol.AssocLeft), termPrec("STAR", 2, symbol.AssocLeft), term("NUM")},
		NonTerminals: []NonTerminalInput{nt("expr")},
		Start:        "expr",
		Productions: []ProductionInput{
			prod("expr", "expr", "STAR", "NUM"),
		},
	}, bag)
	require.NoError(t, err)

	rp := g.raw[1] // g.raw[0] is the synthesized $START production
	p := resolvePrecedence(g, rp, bag)
	require.True(t, p.Defined())
	assert.Equal(t, 2, p.Level, "rightmost precedence-carrying terminal (STAR) wins absent %%prec")
	assert.False(t, bag.HasErrors())
}

func TestResolvePrecedenceExplicitPrecOverridesRightmost(t *testing.T) {
	bag := diag.NewBag()
	input := GrammarInput{
		Terminals:    []TerminalInput{termPrec("PLUS", 1, symbol.AssocLeft), termPrec("STAR", 2, symbol.AssocLeft)},
		NonTerminals: []NonTerminalInput{nt("expr")},
		Start:        "expr",
		Productions: []ProductionInput{
			{LHSName: "expr", RHS: rhs("expr", "PLUS", "expr"), PrecTerminal: "STAR"},
		},
	}
	g, err := Build(input, bag)
	require.NoError(t, err)

	rp := g.raw[1] // g.raw[0] is the synthesized $START production
	p := resolvePrecedence(g, rp, bag)
	require.True(t, p.Defined())
	assert.Equal(t, 2, p.Level)
}

func TestResolvePrecedenceAmbiguousWithoutExplicitPrecIsReported(t *testing.T) {
	// Two RHS terminals at distinct precedence levels with no %prec must
	// be reported as ambiguous and leave the production unprecedenced.
	bag := diag.NewBag()
	g, err := Build(GrammarInput{
		Terminals: []TerminalInput{
			termPrec("LOW", 1, symbol.AssocLeft),
			termPrec("HIGH", 2, symbol.AssocLeft),
		},
		NonTerminals: []NonTerminalInput{nt("expr")},
		Start:        "expr",
		Productions: []ProductionInput{
			prod("expr", "LOW", "expr", "HIGH"),
		},
	}, bag)
	require.NoError(t, err)

	rp := g.raw[1] // g.raw[0] is the synthesized $START production
	p := resolvePrecedence(g, rp, bag)
	assert.Equal(t, symbol.NoPrecedence, p)

	var found bool
	for _, f := range bag.Findings() {
		if f.Kind == diag.KindPrecedenceAmbiguous {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRewriteFactorsMultipleEmbeddedActionsInOrder(t *testing.T) {
	input := GrammarInput{
		Terminals:    []TerminalInput{term("A"), term("B"), term("C")},
		NonTerminals: []NonTerminalInput{nt("S")},
		Start:        "S",
		Productions: []ProductionInput{
			{LHSName: "S", RHS: []RHSElem{
				{SymName: "A"},
				{Action: "first()"},
				{SymName: "B"},
				{Action: "second()"},
				{SymName: "C"},
				{Action: "trail()"},
			}},
		},
	}
	bag := diag.NewBag()
	g, err := Build(input, bag)
	require.NoError(t, err)
	require.NoError(t, rewrite(g, bag))

	var embedded []*Production
	var main *Production
	for _, p := range g.Prods.All() {
		if p.IsEmbeddedAction {
			embedded = append(embedded, p)
		} else if p.LHS.String() != "$START" {
			main = p
		}
	}
	require.Len(t, embedded, 2)
	require.NotNil(t, main)
	assert.Equal(t, "trail()", main.Action)
	// A, $ACT$1, B, $ACT$2, C
	assert.Len(t, main.RHS, 5)
	assert.Equal(t, 3, main.StackDepth, "embedded-action non-terminals are excluded from stack depth")

	// The second embedded action must record the first's RHS slot as its
	// intermediate-result predecessor.
	assert.Equal(t, -1, embedded[0].IndexOfIntermediateResult)
	assert.Equal(t, 1, embedded[1].IndexOfIntermediateResult)
}

func TestRewriteWarnsOnDuplicateProduction(t *testing.T) {
	input := GrammarInput{
		Terminals:    []TerminalInput{term("A")},
		NonTerminals: []NonTerminalInput{nt("S")},
		Start:        "S",
		Productions: []ProductionInput{
			prod("S", "A"),
			prod("S", "A"),
		},
	}
	bag := diag.NewBag()
	g, err := Build(input, bag)
	require.NoError(t, err)
	require.NoError(t, rewrite(g, bag))

	assert.Equal(t, 1, len(g.Prods.ByLHS(mustSym(t, g, "S"))))

	var found bool
	for _, f := range bag.Findings() {
		if f.Kind == diag.KindSymbolRedeclared {
			found = true
		}
	}
	assert.True(t, found)
}

func mustSym(t *testing.T, g *Grammar, name string) symbol.Symbol {
	t.Helper()
	s, ok := g.Symbols.ToSymbol(name)
	require.True(t, ok)
	return s
}
