package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ultimate-pa/javacup/grammar"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print the automaton description embedded in a compiled table",
		Example: `  javacup describe grammar.table.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("javacup: cannot open compiled table %s: %w", args[0], err)
	}
	defer f.Close()

	var tables grammar.CompiledTables
	if err := json.NewDecoder(f).Decode(&tables); err != nil {
		return fmt.Errorf("javacup: malformed compiled table: %w", err)
	}
	if tables.Description == "" {
		return fmt.Errorf("javacup: %s was compiled without --describe", args[0])
	}

	fmt.Fprint(os.Stdout, tables.Description)
	return nil
}
