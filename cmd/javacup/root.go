package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "javacup",
	Short: "Generate a portable LALR(1) parsing table from a grammar",
	Long: `javacup compiles a JSON grammar description into a compact LALR(1)
parsing table, reporting any shift/reduce or reduce/reduce conflicts it
had to resolve along the way.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
