package grammar

import "errors"

// Sentinel errors surfaced while validating and rewriting a GrammarInput.
// Each corresponds to one of the error kinds named in the diagnostics
// design; most are recorded into a diag.Bag rather than returned, so that
// a single run surfaces as many problems as possible. Besides the input
// errors Build returns when it cannot continue (errNoStartSymbol,
// errNoProductions), only the two fatal kinds below (TABLE_OVERFLOW,
// UNEXPECTED_CONFLICT_COUNT) abort the build outright and are returned as
// plain errors from Compile.
var (
	errNoStartSymbol        = errors.New("grammar: no start symbol declared")
	errSymbolRedeclared     = errors.New("grammar: symbol redeclared")
	errUnknownSymbol        = errors.New("grammar: reference to an undeclared symbol")
	errErrorSymbolReserved  = errors.New("grammar: symbol 'error' is reserved")
	errEOFSymbolReserved    = errors.New("grammar: symbol '$EOF' is reserved")
	errAmbiguousPrecedence  = errors.New("grammar: production precedence is ambiguous; RHS carries multiple distinct precedences and no %prec was given")
	errNoProductions        = errors.New("grammar: a grammar needs at least one production")
	errDuplicateProduction  = errors.New("grammar: duplicate production")
	errTableOverflow        = errors.New("grammar: compressed table exceeds the signed 16-bit range")
	errUnexpectedConflicts  = errors.New("grammar: conflict count exceeds expected_conflicts")
	errNonassocConflict     = errors.New("grammar: nonassociative operator used where shift/reduce cannot be resolved")
)
