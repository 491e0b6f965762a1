package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ultimate-pa/javacup/diag"
	"github.com/ultimate-pa/javacup/grammar"
)

var compileFlags = struct {
	output      *string
	description *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar into an LALR(1) parsing table",
		Example: `  javacup compile grammar.json -o grammar.table.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.description = cmd.Flags().Bool("describe", false, "include a human-readable automaton description")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	var r io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("javacup: cannot open grammar file %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}

	input, opts, err := readGrammarInput(r)
	if err != nil {
		return err
	}
	if *compileFlags.description {
		opts = append(opts, grammar.WithDescription())
	}

	bag := diag.NewBag()
	tables, err := grammar.Compile(input, bag, opts...)
	bag.Render()

	if err != nil {
		return fmt.Errorf("javacup: compilation failed: %w", err)
	}

	out := os.Stdout
	if *compileFlags.output != "" {
		f, err := os.OpenFile(*compileFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("javacup: cannot open output file %s: %w", *compileFlags.output, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tables); err != nil {
		return fmt.Errorf("javacup: cannot write compiled table: %w", err)
	}

	if tables.NumConflicts > 0 {
		fmt.Fprintf(os.Stderr, "%d conflicts resolved\n", tables.NumConflicts)
	}
	if bag.HasErrors() {
		return fmt.Errorf("javacup: %d error(s) reported", bag.CountBySeverity(diag.SeverityError))
	}
	return nil
}
