// Package grammar implements the analysis pipeline that turns a raw
// grammar description into an LALR(1) action/goto table pair: embedded
// action rewriting, nullability and FIRST fixed points, automaton
// construction with kernel canonicalization and lookahead propagation,
// conflict resolution, and two-level table compression.
package grammar

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer returns the package-level syntax tracer every build phase
// reports progress and diagnostics through.
func tracer() tracing.Trace { return gtrace.SyntaxTracer }
