package grammar

import (
	"fmt"

	"github.com/ultimate-pa/javacup/bitset"
	"github.com/ultimate-pa/javacup/diag"
	"github.com/ultimate-pa/javacup/symbol"
)

// --- External interface: the grammar object produced by the front-end ---
//
// The grammar-spec lexer/parser front-end is an external collaborator
// (out of scope for this module); GrammarInput is the shape it is
// expected to hand us. Productions interleave symbol references with
// opaque action payloads so the rewriter can factor non-trailing actions
// out into synthetic non-terminals.

// TerminalInput declares one terminal symbol.
type TerminalInput struct {
	Name       string
	Type       string
	Precedence symbol.Precedence
}

// NonTerminalInput declares one non-terminal symbol.
type NonTerminalInput struct {
	Name string
	Type string
}

// RHSElem is one element of a production's right-hand side: either a
// reference to a previously declared symbol (SymName set) or an embedded
// semantic action (Action set). Exactly one of the two must be non-empty.
type RHSElem struct {
	SymName string
	Action  string
}

// IsAction reports whether this element is an embedded action rather than
// a symbol reference.
func (e RHSElem) IsAction() bool { return e.Action != "" }

// ProductionInput declares one raw (pre-rewrite) production.
type ProductionInput struct {
	LHSName string
	RHS     []RHSElem
	// PrecTerminal is the terminal named by an explicit %prec
	// annotation, or "" if none was given.
	PrecTerminal string
}

// GrammarInput is the external grammar input to a build: the symbol
// declarations, the raw productions, and the start non-terminal.
// Compile-time options are passed separately to Compile as CompileOptions.
type GrammarInput struct {
	Terminals    []TerminalInput
	NonTerminals []NonTerminalInput
	Productions  []ProductionInput
	Start        string
}

// rawProduction is a ProductionInput after name resolution, before
// embedded-action rewriting.
type rawProduction struct {
	lhs          symbol.Symbol
	rhs          []rawRHSElem
	precTerminal symbol.Symbol // Nil if no explicit %prec
}

type rawRHSElem struct {
	sym    symbol.Symbol // Nil if this element is an action
	action string
}

func (e rawRHSElem) isAction() bool { return e.sym.IsNil() }

// Grammar is the explicit aggregate that owns every indexed sequence a
// build phase needs: the symbol table and the (post-rewrite) production
// set. No phase keeps a process-wide singleton; everything is reached
// through a *Grammar value passed explicitly from phase to phase.
type Grammar struct {
	Symbols *symbol.Table
	Prods   *ProductionSet

	// RealStart is the user-declared start non-terminal; Start is the
	// synthesized $START wrapping it (production $START ::= RealStart).
	RealStart symbol.Symbol
	Start     symbol.Symbol

	raw []rawProduction

	// nullable and first are the results of the two separate fixed-point
	// solvers in analysis.go, keyed by non-terminal.
	nullable map[symbol.Symbol]bool
	first    map[symbol.Symbol]bitset.Set
}

// resolveSymbol looks up name in the symbol table, recording an
// UNKNOWN_SYMBOL diagnostic and returning symbol.Nil if it is undeclared.
func resolveSymbol(tab *symbol.Table, name string, bag *diag.Bag) symbol.Symbol {
	sym, ok := tab.ToSymbol(name)
	if !ok {
		bag.Error(diag.KindUnknownSymbol, -1, "%v: %q", errUnknownSymbol, name)
		return symbol.Nil
	}
	return sym
}

// Build validates a GrammarInput, interns its symbols, and resolves every
// production's symbol references, without yet performing embedded-action
// rewriting (see rewrite). Errors about individual malformed declarations
// are recorded into bag so that a single run surfaces as many problems as
// possible; Build only returns a non-nil error for conditions that make
// continuing meaningless (no start symbol, no productions at all).
func Build(input GrammarInput, bag *diag.Bag) (*Grammar, error) {
	tab := symbol.NewTable()
	declared := map[string]bool{"error": true, "$EOF": true, "$START": true}

	for _, td := range input.Terminals {
		if td.Name == "error" {
			bag.Error(diag.KindSymbolRedeclared, -1, "%v", errErrorSymbolReserved)
			continue
		}
		if td.Name == "$EOF" {
			bag.Error(diag.KindSymbolRedeclared, -1, "%v", errEOFSymbolReserved)
			continue
		}
		if declared[td.Name] {
			bag.Error(diag.KindSymbolRedeclared, -1, "%v: terminal %q redeclared", errSymbolRedeclared, td.Name)
			continue
		}
		declared[td.Name] = true
		if _, err := tab.RegisterTerminal(td.Name, td.Type, td.Precedence); err != nil {
			return nil, err
		}
	}
	for _, nd := range input.NonTerminals {
		if declared[nd.Name] {
			bag.Error(diag.KindSymbolRedeclared, -1, "%v: non-terminal %q redeclared", errSymbolRedeclared, nd.Name)
			continue
		}
		declared[nd.Name] = true
		if _, err := tab.RegisterNonTerminal(nd.Name, nd.Type); err != nil {
			return nil, err
		}
	}

	if input.Start == "" {
		return nil, errNoStartSymbol
	}
	realStart, ok := tab.ToSymbol(input.Start)
	if !ok || !realStart.IsNonTerminal() {
		return nil, fmt.Errorf("grammar: start symbol %q is not a declared non-terminal", input.Start)
	}

	if len(input.Productions) == 0 {
		return nil, errNoProductions
	}

	raw := make([]rawProduction, 0, len(input.Productions)+1)
	for _, pd := range input.Productions {
		lhs := resolveSymbol(tab, pd.LHSName, bag)
		if lhs.IsNil() || !lhs.IsNonTerminal() {
			if !lhs.IsNil() {
				bag.Error(diag.KindUnknownSymbol, -1, "%q is not a non-terminal", pd.LHSName)
			}
			continue
		}
		rhs := make([]rawRHSElem, 0, len(pd.RHS))
		ok := true
		for _, e := range pd.RHS {
			if e.IsAction() {
				rhs = append(rhs, rawRHSElem{action: e.Action})
				continue
			}
			s := resolveSymbol(tab, e.SymName, bag)
			if s.IsNil() {
				ok = false
				continue
			}
			rhs = append(rhs, rawRHSElem{sym: s})
		}
		if !ok {
			continue
		}
		var precTerm symbol.Symbol
		if pd.PrecTerminal != "" {
			precTerm = resolveSymbol(tab, pd.PrecTerminal, bag)
			if !precTerm.IsNil() && !precTerm.IsTerminal() {
				bag.Error(diag.KindUnknownSymbol, -1, "%%prec %q is not a terminal", pd.PrecTerminal)
				precTerm = symbol.Nil
			}
		}
		raw = append(raw, rawProduction{lhs: lhs, rhs: rhs, precTerminal: precTerm})
	}

	// Synthesize $START ::= RealStart, looked ahead by $EOF.
	raw = append([]rawProduction{{lhs: symbol.Start, rhs: []rawRHSElem{{sym: realStart}}}}, raw...)

	return &Grammar{
		Symbols:   tab,
		RealStart: realStart,
		Start:     symbol.Start,
		raw:       raw,
	}, nil
}

// --- Compile-time options ---

type compileConfig struct {
	expectedConflicts int
	compactReduces    bool
	description       bool
}

// CompileOption configures a Compile call using the functional-options
// pattern, covering expected_conflicts, compact_reduces, and description
// generation.
type CompileOption func(*compileConfig)

// WithExpectedConflicts sets the conflict budget: Compile fails with
// UNEXPECTED_CONFLICT_COUNT once the number of recorded conflicts exceeds
// n.
func WithExpectedConflicts(n int) CompileOption {
	return func(c *compileConfig) { c.expectedConflicts = n }
}

// WithCompactReduces records the compact_reduces option. Compile does not
// read it: the reduce (goto) table is packed the same way whether or not
// it is set.
func WithCompactReduces() CompileOption {
	return func(c *compileConfig) { c.compactReduces = true }
}

// WithDescription enables generation of the human-readable automaton
// description alongside the compiled bundle.
func WithDescription() CompileOption {
	return func(c *compileConfig) { c.description = true }
}

// CompiledTables is the compact table bundle handed to the runtime
// parse-driver and/or the source-emission collaborator, matching the
// external-interface layout of §6.
type CompiledTables struct {
	ActionCompressed []int16
	ActionBase       []int

	ReduceCompressed []int16
	ReduceBase       []int
	// ReduceOwner disambiguates a real goto entry from a slot another
	// state's row merely happens to overlap; §6 does not name it as part
	// of the external bundle, but the row-displacement packing used to
	// build ReduceCompressed needs it for correct decoding (see
	// DESIGN.md).
	ReduceOwner []int16

	// ProductionTable and ActionCodeTable are indexed directly by the
	// REDUCE operand decoded from an action code (ActionOperand(c) for an
	// IsReduce(c) cell), i.e. by ProductionNum: slot 0 is unused (0 is the
	// reserved nil production number), and slots [1, NumProductions] hold
	// the real productions. This keeps ActionOperand(EncodeReduce(n)) == n
	// a valid index into both tables without a shift at decode time.
	ProductionTable []ProductionTableEntry
	ActionCodeTable []string

	NumStates           int
	NumProductions      int
	NumConflicts        int
	UnusedTerminals     int
	UnusedNonTerminals  int
	NeverReduced        int

	Description string
}

// ProductionTableEntry is one row of the external production_table, per
// §6: the LHS, the post-rewrite RHS symbol count, and the stack depth
// popped on reduce. Row 0 is the unused placeholder for ProductionNumNil;
// see CompiledTables.ProductionTable.
type ProductionTableEntry struct {
	LHSIndex      int
	RHSSymbolCount int
	RHSStackDepth  int
	NeverReduced   bool
}

// Compile runs the complete analysis pipeline: rewrite, nullability/FIRST,
// LALR(1) machine construction, table fill with conflict resolution,
// diagnostics, and two-level compression. Besides the errors Build and
// rewrite return for input they cannot continue with (no start symbol, no
// productions), it returns a fatal error only for TABLE_OVERFLOW or
// UNEXPECTED_CONFLICT_COUNT; every other finding is recorded into bag and
// building continues.
func Compile(input GrammarInput, bag *diag.Bag, opts ...CompileOption) (*CompiledTables, error) {
	cfg := &compileConfig{expectedConflicts: 0}
	for _, opt := range opts {
		opt(cfg)
	}

	tracer().Infof("grammar: build phase starting")
	g, err := Build(input, bag)
	if err != nil {
		return nil, err
	}

	tracer().Infof("grammar: rewrite phase starting")
	if err := rewrite(g, bag); err != nil {
		return nil, err
	}

	tracer().Infof("grammar: nullability/FIRST phase starting")
	computeNullableAndFirst(g)

	tracer().Infof("grammar: LALR(1) machine construction starting")
	m := buildLALRMachine(g)
	tracer().Debugf("grammar: %d states constructed", len(m.states))

	tracer().Infof("grammar: table fill starting")
	tb := newTableBuilder(g, m)
	tb.fill(bag)
	if tb.conflicts > cfg.expectedConflicts {
		bag.Fatal(diag.KindConflictCount, -1, "%d conflicts exceeds expected_conflicts=%d", tb.conflicts, cfg.expectedConflicts)
		return nil, errUnexpectedConflicts
	}

	tracer().Infof("grammar: diagnostics pass starting")
	unusedTerm, unusedNonTerm := runDiagnostics(g, m, tb, bag)

	tracer().Infof("grammar: default-reduction selection starting")
	defaults := selectDefaultReductions(tb)

	tracer().Infof("grammar: table compression starting")
	out, err := compressTables(g, tb, defaults)
	if err != nil {
		bag.Fatal(diag.KindTableOverflow, -1, "%v: %v", errTableOverflow, err)
		return nil, errTableOverflow
	}

	// Slot 0 is the unused ProductionNumNil placeholder; real productions
	// occupy slots [1, Len()] at their own Num, so that the REDUCE operand
	// decoded from an action code indexes both tables directly.
	prodTable := make([]ProductionTableEntry, g.Prods.Len()+1)
	actionCode := make([]string, g.Prods.Len()+1)
	neverReduced := 0
	for _, p := range g.Prods.All() {
		entry := ProductionTableEntry{
			LHSIndex:       p.LHS.Num().Int(),
			RHSSymbolCount: len(p.RHS),
			RHSStackDepth:  p.StackDepth,
			NeverReduced:   p.ReduceCount == 0,
		}
		prodTable[p.Num] = entry
		actionCode[p.Num] = p.Action
		if entry.NeverReduced {
			neverReduced++
		}
	}

	out.ProductionTable = prodTable
	out.ActionCodeTable = actionCode
	out.NumConflicts = tb.conflicts
	out.UnusedTerminals = unusedTerm
	out.UnusedNonTerminals = unusedNonTerm
	out.NeverReduced = neverReduced
	if cfg.description {
		out.Description = GenerateDescription(g, m, tb)
	}
	return out, nil
}
