package grammar

import (
	"fmt"
	"strings"

	"github.com/ultimate-pa/javacup/bitset"
	"github.com/ultimate-pa/javacup/symbol"
)

// GenerateDescription renders a human-readable dump of the compiled
// automaton: every state's item set, its shift/goto transitions, and a
// summary of the conflicts table.go resolved while filling it. It exists
// purely for operators inspecting a grammar; nothing in the compiled
// bundle depends on its output.
func GenerateDescription(g *Grammar, m *lalrMachine, tb *tableBuilder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "states: %d, productions: %d, conflicts: %d\n\n", len(m.states), g.Prods.Len(), tb.conflicts)

	for _, s := range m.states {
		fmt.Fprintf(&b, "state %d:\n", s.Num)
		for _, it := range s.items {
			la := m.lookahead(s, it)
			fmt.Fprintf(&b, "  %v  [%s]\n", it, describeLookahead(la))
		}
		for _, tr := range s.transitions {
			kind := "goto"
			if tr.on.IsTerminal() {
				kind = "shift"
			}
			fmt.Fprintf(&b, "  %s %v -> state %d\n", kind, tr.on, tr.to)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func describeLookahead(la bitset.Set) string {
	var names []string
	la.Each(func(idx int) {
		names = append(names, symbol.TerminalFromNum(symbol.Num(idx)).String())
	})
	return strings.Join(names, ",")
}
