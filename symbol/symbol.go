// Package symbol implements the symbol model of the grammar: terminals,
// non-terminals, and the symbol table that assigns them dense indices.
//
// A Symbol is a packed 16-bit handle, mirroring the bit layout used
// throughout the analysis pipeline: the high bit distinguishes terminals
// from non-terminals, the next bit marks the three distinguished symbols
// (the start non-terminal, the EOF terminal and the error terminal), and
// the low 14 bits hold
// a dense per-kind index.
package symbol

import (
	"fmt"
	"sort"
)

type kind uint8

const (
	kindNonTerminal kind = iota
	kindTerminal
)

// Num is a dense, per-kind index: terminals are numbered in [0, T), and
// non-terminals are numbered in [0, N), independently of one another.
type Num uint16

func (n Num) Int() int { return int(n) }

// Symbol is an interned handle to a terminal or a non-terminal.
type Symbol uint16

const (
	maskKind      = uint16(0x8000)
	maskDistinct  = uint16(0x4000)
	maskNum       = uint16(0x3fff)
	numStartOrEOF = uint16(0x0001)

	// Nil is the zero value of Symbol and never denotes a real symbol.
	Nil = Symbol(0)

	// Start is the synthesized `$START` non-terminal.
	Start = Symbol(maskDistinct | numStartOrEOF)

	// EOF is the reserved end-of-input terminal.
	EOF = Symbol(maskKind | maskDistinct | numStartOrEOF)

	numError = uint16(0x0002)

	// Error is the reserved terminal used to trigger error-recovery
	// productions.
	Error = Symbol(maskKind | maskDistinct | numError)

	nonTerminalNumMin = Num(2) // 1 is reserved for Start.
	terminalNumMin    = Num(3) // 1 is reserved for EOF, 2 for Error.
	numMax            = Num(0x3fff)
)

func (s Symbol) describe() (k kind, distinct bool, num Num) {
	k = kindNonTerminal
	if uint16(s)&maskKind != 0 {
		k = kindTerminal
	}
	distinct = uint16(s)&maskDistinct != 0
	num = Num(uint16(s) & maskNum)
	return
}

// Num returns the symbol's dense per-kind index.
func (s Symbol) Num() Num { _, _, n := s.describe(); return n }

// IsNil reports whether s is the zero Symbol.
func (s Symbol) IsNil() bool { return s == Nil }

// IsTerminal reports whether s is a terminal (including EOF).
func (s Symbol) IsTerminal() bool {
	if s.IsNil() {
		return false
	}
	k, _, _ := s.describe()
	return k == kindTerminal
}

// IsNonTerminal reports whether s is a non-terminal (including Start).
func (s Symbol) IsNonTerminal() bool { return !s.IsNil() && !s.IsTerminal() }

// IsStart reports whether s is the synthesized start non-terminal.
func (s Symbol) IsStart() bool {
	if s.IsNil() || s.IsTerminal() {
		return false
	}
	_, distinct, _ := s.describe()
	return distinct
}

// IsEOF reports whether s is the reserved EOF terminal.
func (s Symbol) IsEOF() bool { return s == EOF }

// IsError reports whether s is the reserved error-recovery terminal.
func (s Symbol) IsError() bool { return s == Error }

func (s Symbol) String() string {
	if s.IsNil() {
		return "<nil>"
	}
	if s.IsStart() {
		return "$START"
	}
	if s.IsEOF() {
		return "$EOF"
	}
	if s.IsError() {
		return "error"
	}
	if s.IsTerminal() {
		return fmt.Sprintf("t%v", s.Num())
	}
	return fmt.Sprintf("n%v", s.Num())
}

// TerminalFromNum reconstructs the terminal Symbol handle for a dense
// terminal index, including the two reserved indices (1=EOF, 2=error).
func TerminalFromNum(n Num) Symbol {
	switch n {
	case 1:
		return EOF
	case 2:
		return Error
	default:
		return Symbol(maskKind | uint16(n))
	}
}

// NonTerminalFromNum reconstructs the non-terminal Symbol handle for a
// dense non-terminal index, including the reserved start index (1).
func NonTerminalFromNum(n Num) Symbol {
	if n == 1 {
		return Start
	}
	return Symbol(uint16(n))
}

func newSymbol(k kind, distinct bool, num Num) (Symbol, error) {
	if num > numMax {
		return Nil, fmt.Errorf("symbol number %v exceeds the limit %v", num, numMax)
	}
	var bits uint16
	if k == kindTerminal {
		bits |= maskKind
	}
	if distinct {
		bits |= maskDistinct
	}
	return Symbol(bits | uint16(num)), nil
}

// Assoc is the associativity side of a precedence declaration.
type Assoc int

const (
	AssocNone Assoc = iota
	AssocLeft
	AssocRight
	AssocNonAssoc
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	case AssocNonAssoc:
		return "nonassoc"
	default:
		return "none"
	}
}

// Precedence is a declared precedence level and side. Level 0 means
// "no precedence declared".
type Precedence struct {
	Level int
	Assoc Assoc
}

// Defined reports whether a real (non-NONE) precedence was declared.
func (p Precedence) Defined() bool { return p.Level > 0 }

// NoPrecedence is the value used for symbols with no declared precedence.
var NoPrecedence = Precedence{}

// Table interns terminal and non-terminal names into dense Symbol handles
// and records each terminal's declared type tag and precedence.
type Table struct {
	text2sym map[string]Symbol
	sym2text map[Symbol]string

	termTypes []string
	termPrec  []Precedence

	nonTermTypes []string

	nextTerm    Num
	nextNonTerm Num
}

// NewTable creates a symbol table pre-populated with the reserved EOF
// terminal and start non-terminal.
func NewTable() *Table {
	t := &Table{
		text2sym:     map[string]Symbol{"$EOF": EOF, "$START": Start, "error": Error},
		sym2text:     map[Symbol]string{EOF: "$EOF", Start: "$START", Error: "error"},
		termTypes:    make([]string, terminalNumMin),
		termPrec:     make([]Precedence, terminalNumMin),
		nonTermTypes: make([]string, nonTerminalNumMin),
		nextTerm:     terminalNumMin,
		nextNonTerm:  nonTerminalNumMin,
	}
	return t
}

// RegisterTerminal interns a terminal name, returning its existing Symbol
// if already registered.
func (t *Table) RegisterTerminal(name, typeTag string, prec Precedence) (Symbol, error) {
	if sym, ok := t.text2sym[name]; ok {
		return sym, nil
	}
	sym, err := newSymbol(kindTerminal, false, t.nextTerm)
	if err != nil {
		return Nil, err
	}
	t.nextTerm++
	t.text2sym[name] = sym
	t.sym2text[sym] = name
	t.termTypes = append(t.termTypes, typeTag)
	t.termPrec = append(t.termPrec, prec)
	return sym, nil
}

// RegisterNonTerminal interns a non-terminal name, returning its existing
// Symbol if already registered.
func (t *Table) RegisterNonTerminal(name, typeTag string) (Symbol, error) {
	if sym, ok := t.text2sym[name]; ok {
		return sym, nil
	}
	sym, err := newSymbol(kindNonTerminal, false, t.nextNonTerm)
	if err != nil {
		return Nil, err
	}
	t.nextNonTerm++
	t.text2sym[name] = sym
	t.sym2text[sym] = name
	t.nonTermTypes = append(t.nonTermTypes, typeTag)
	return sym, nil
}

// ToSymbol resolves a name to its Symbol.
func (t *Table) ToSymbol(name string) (Symbol, bool) {
	sym, ok := t.text2sym[name]
	return sym, ok
}

// ToText resolves a Symbol back to its declared name.
func (t *Table) ToText(sym Symbol) (string, bool) {
	text, ok := t.sym2text[sym]
	return text, ok
}

// TerminalPrecedence returns the declared precedence of a terminal.
func (t *Table) TerminalPrecedence(term Symbol) Precedence {
	n := term.Num().Int()
	if n >= len(t.termPrec) {
		return NoPrecedence
	}
	return t.termPrec[n]
}

// TerminalType returns the declared value-type tag of a terminal.
func (t *Table) TerminalType(term Symbol) string {
	n := term.Num().Int()
	if n >= len(t.termTypes) {
		return ""
	}
	return t.termTypes[n]
}

// NonTerminalType returns the declared value-type tag of a non-terminal.
func (t *Table) NonTerminalType(nt Symbol) string {
	n := nt.Num().Int()
	if n >= len(t.nonTermTypes) {
		return ""
	}
	return t.nonTermTypes[n]
}

// TerminalCount returns one more than the highest terminal index in use,
// i.e. the capacity a set indexed by terminal number needs. Index 0 is
// never assigned, so this is one more than the number of terminals
// (EOF and error included).
func (t *Table) TerminalCount() int { return t.nextTerm.Int() }

// NonTerminalCount returns one more than the highest non-terminal index
// in use. Index 0 is never assigned, so this is one more than the number
// of non-terminals (the start symbol included).
func (t *Table) NonTerminalCount() int { return t.nextNonTerm.Int() }

// Terminals returns all registered terminal symbols in index order,
// excluding the reserved EOF and error terminals.
func (t *Table) Terminals() []Symbol {
	syms := make([]Symbol, 0, t.nextTerm.Int()-int(terminalNumMin))
	for sym := range t.sym2text {
		if sym.IsTerminal() && !sym.IsEOF() && !sym.IsError() {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// NonTerminals returns all registered non-terminal symbols in index order,
// excluding the start symbol.
func (t *Table) NonTerminals() []Symbol {
	syms := make([]Symbol, 0, t.nextNonTerm.Int()-int(nonTerminalNumMin))
	for sym := range t.sym2text {
		if sym.IsNonTerminal() && !sym.IsStart() {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}
