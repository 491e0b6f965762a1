package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ultimate-pa/javacup/grammar"
	"github.com/ultimate-pa/javacup/symbol"
)

// jsonGrammar is the on-disk JSON shape of a grammar definition: the
// front-end that turns a .cup-style grammar source file into this
// document is an external collaborator, out of scope here.
type jsonGrammar struct {
	Terminals    []jsonTerminal    `json:"terminals"`
	NonTerminals []jsonNonTerminal `json:"nonTerminals"`
	Productions  []jsonProduction  `json:"productions"`
	Start        string            `json:"start"`

	ExpectedConflicts int  `json:"expectedConflicts,omitempty"`
	CompactReduces    bool `json:"compactReduces,omitempty"`
}

type jsonTerminal struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	Precedence int    `json:"precedence,omitempty"`
	Assoc      string `json:"assoc,omitempty"`
}

type jsonNonTerminal struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type jsonRHSElem struct {
	Symbol string `json:"symbol,omitempty"`
	Action string `json:"action,omitempty"`
}

type jsonProduction struct {
	LHS  string        `json:"lhs"`
	RHS  []jsonRHSElem `json:"rhs"`
	Prec string        `json:"prec,omitempty"`
}

func parseAssoc(s string) (symbol.Assoc, error) {
	switch s {
	case "", "none":
		return symbol.AssocNone, nil
	case "left":
		return symbol.AssocLeft, nil
	case "right":
		return symbol.AssocRight, nil
	case "nonassoc":
		return symbol.AssocNonAssoc, nil
	default:
		return symbol.AssocNone, fmt.Errorf("unknown associativity %q", s)
	}
}

func readGrammarInput(r io.Reader) (grammar.GrammarInput, []grammar.CompileOption, error) {
	var jg jsonGrammar
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&jg); err != nil {
		return grammar.GrammarInput{}, nil, fmt.Errorf("javacup: malformed grammar document: %w", err)
	}

	input := grammar.GrammarInput{Start: jg.Start}
	for _, t := range jg.Terminals {
		assoc, err := parseAssoc(t.Assoc)
		if err != nil {
			return grammar.GrammarInput{}, nil, fmt.Errorf("javacup: terminal %q: %w", t.Name, err)
		}
		prec := symbol.NoPrecedence
		if t.Precedence != 0 {
			prec = symbol.Precedence{Level: t.Precedence, Assoc: assoc}
		}
		input.Terminals = append(input.Terminals, grammar.TerminalInput{Name: t.Name, Type: t.Type, Precedence: prec})
	}
	for _, nt := range jg.NonTerminals {
		input.NonTerminals = append(input.NonTerminals, grammar.NonTerminalInput{Name: nt.Name, Type: nt.Type})
	}
	for _, p := range jg.Productions {
		var rhs []grammar.RHSElem
		for _, e := range p.RHS {
			rhs = append(rhs, grammar.RHSElem{SymName: e.Symbol, Action: e.Action})
		}
		input.Productions = append(input.Productions, grammar.ProductionInput{LHSName: p.LHS, RHS: rhs, PrecTerminal: p.Prec})
	}

	var opts []grammar.CompileOption
	opts = append(opts, grammar.WithExpectedConflicts(jg.ExpectedConflicts))
	if jg.CompactReduces {
		opts = append(opts, grammar.WithCompactReduces())
	}
	return input, opts, nil
}
