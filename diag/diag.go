// Package diag implements the diagnostics channel: a line-oriented,
// severity-tagged collection of findings accumulated during a grammar
// build, rendered in color for a terminal via pterm and mirrored as
// structured trace events via schuko/tracing.
package diag

import (
	"fmt"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
)

// T returns the package-level syntax tracer every pipeline phase reports
// through.
func T() tracing.Trace { return gtrace.SyntaxTracer }

// Severity tags a Finding.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "warning"
	}
}

// Kind identifies one of the error/warning categories named by the
// diagnostics design: symbol, precedence, conflict and table-packing
// findings.
type Kind string

const (
	KindSymbolRedeclared    Kind = "SYMBOL_REDECLARED"
	KindUnknownSymbol       Kind = "UNKNOWN_SYMBOL"
	KindPrecedenceAmbiguous Kind = "PRODUCTION_PRECEDENCE_AMBIGUOUS"
	KindShiftReduceConflict Kind = "SHIFT_REDUCE_CONFLICT"
	KindReduceReduceConflict Kind = "REDUCE_REDUCE_CONFLICT"
	KindNonassocConflict    Kind = "NONASSOC_CONFLICT"
	KindNeverReduced        Kind = "PRODUCTION_NEVER_REDUCED"
	KindUnusedSymbol        Kind = "UNUSED_SYMBOL"
	KindTableOverflow       Kind = "TABLE_OVERFLOW"
	KindConflictCount       Kind = "UNEXPECTED_CONFLICT_COUNT"
)

// Finding is a single diagnostics-channel entry.
type Finding struct {
	Severity Severity
	Kind     Kind
	State    int // -1 if not state-scoped
	Message  string
}

func (f Finding) String() string {
	if f.State >= 0 {
		return fmt.Sprintf("[%s] %s (state %d): %s", f.Severity, f.Kind, f.State, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Kind, f.Message)
}

// Bag accumulates findings across a build. It never aborts a build by
// itself; callers decide when accumulated counts (e.g. conflicts) cross a
// threshold.
type Bag struct {
	findings []Finding
}

// NewBag returns an empty diagnostics bag.
func NewBag() *Bag { return &Bag{} }

func (b *Bag) add(sev Severity, kind Kind, state int, format string, args ...interface{}) {
	f := Finding{Severity: sev, Kind: kind, State: state, Message: fmt.Sprintf(format, args...)}
	b.findings = append(b.findings, f)
	switch sev {
	case SeverityFatal:
		T().Errorf("%s", f)
	case SeverityError:
		T().Errorf("%s", f)
	default:
		T().Infof("%s", f)
	}
}

// Warn records a non-fatal warning (unused symbol, never-reduced production).
func (b *Bag) Warn(kind Kind, state int, format string, args ...interface{}) {
	b.add(SeverityWarning, kind, state, format, args...)
}

// Error records a recoverable build error (a diagnostic the build
// continues past, surfacing as many findings as possible in one run).
func (b *Bag) Error(kind Kind, state int, format string, args ...interface{}) {
	b.add(SeverityError, kind, state, format, args...)
}

// Fatal records a finding that will abort code emission once the build
// completes (table overflow, conflict-count exceeded).
func (b *Bag) Fatal(kind Kind, state int, format string, args ...interface{}) {
	b.add(SeverityFatal, kind, state, format, args...)
}

// Findings returns every recorded finding in the order it was added.
func (b *Bag) Findings() []Finding { return b.findings }

// CountBySeverity returns the number of findings at or above sev.
func (b *Bag) CountBySeverity(sev Severity) int {
	n := 0
	for _, f := range b.findings {
		if f.Severity >= sev {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error- or fatal-severity finding was
// recorded.
func (b *Bag) HasErrors() bool { return b.CountBySeverity(SeverityError) > 0 }

// ExitCode implements the exit-code policy: 0 clean, 1 if any error was
// recorded, 2 is reserved by the caller for fatal I/O/internal failures
// that never reach the bag at all.
func (b *Bag) ExitCode() int {
	if b.HasErrors() {
		return 1
	}
	return 0
}

// Render prints every finding to the terminal, colorized by severity.
func (b *Bag) Render() {
	for _, f := range b.findings {
		line := f.String()
		switch f.Severity {
		case SeverityFatal, SeverityError:
			pterm.Error.Println(line)
		default:
			pterm.Warning.Println(line)
		}
	}
}
