package grammar

import (
	"github.com/ultimate-pa/javacup/compressor"
	"github.com/ultimate-pa/javacup/symbol"
)

// selectDefaultReductions chooses, for each state, the action code that
// fills every terminal column the packer can omit, per §4.5: a reduce
// pinned to the reserved error terminal wins outright (it exists so that
// error recovery always has somewhere to fall through to); otherwise the
// production reduced most often across the row's terminal columns wins;
// a row with no reduces at all defaults to ERROR.
func selectDefaultReductions(tb *tableBuilder) []int {
	errIdx := symbol.Error.Num().Int()
	defaults := make([]int, len(tb.action))
	for s, row := range tb.action {
		if errIdx < len(row) && IsReduce(row[errIdx]) {
			defaults[s] = row[errIdx]
			continue
		}
		counts := map[int]int{}
		for _, c := range row {
			if IsReduce(c) {
				counts[c]++
			}
		}
		best, bestCount := ActionError, 0
		for _, c := range row { // iterate in column order for determinism
			if n := counts[c]; IsReduce(c) && (n > bestCount || (n == bestCount && (best == ActionError || ActionOperand(c) < ActionOperand(best)))) {
				best, bestCount = c, n
			}
		}
		defaults[s] = best
	}
	return defaults
}

// compressTables packs the dense action and goto tables built by tb into
// the flat int16 layout of §4.5: per-state defaults prefix the action
// table, followed by strided (owner-tag, action) pairs; the goto table is
// a per-state-base direct offset table with a parallel owner vector
// distinguishing a real goto from a displaced row's incidental overlap.
func compressTables(g *Grammar, tb *tableBuilder, defaults []int) (*CompiledTables, error) {
	numStates := len(tb.action)

	actionPack, err := compressor.Pack(tb.action, func(s, t int) bool {
		return tb.action[s][t] != defaults[s]
	})
	if err != nil {
		return nil, err
	}
	actionCompressed := make([]int16, numStates+2*len(actionPack.Entries))
	for s := 0; s < numStates; s++ {
		actionCompressed[s] = int16(defaults[s])
	}
	actionBase := make([]int, numStates)
	for s := 0; s < numStates; s++ {
		actionBase[s] = numStates + 2*actionPack.Bases[s]
	}
	// Every owner-tag half of a strided pair starts out at the reserved
	// sentinel compressor.ForbiddenValue, which no real state number ever
	// equals (states are numbered from 0). Without this, a slot no row
	// claimed would read back as int16's zero value, aliasing state 0 and
	// letting state 0 be misread through an unclaimed neighbor instead of
	// falling through to its own default action.
	for slot := range actionPack.Entries {
		actionCompressed[numStates+2*slot] = compressor.ForbiddenValue
	}
	for slot, owner := range actionPack.Owner {
		if owner == compressor.ForbiddenValue {
			continue
		}
		idx := numStates + 2*slot
		actionCompressed[idx] = owner
		actionCompressed[idx+1] = actionPack.Entries[slot]
	}
	if len(actionCompressed) > 1<<15-1 {
		return nil, compressor.ErrTableOverflow
	}

	reducePack, err := compressor.Pack(tb.reduceGoto, func(s, nt int) bool {
		return tb.reduceGoto[s][nt] != 0
	})
	if err != nil {
		return nil, err
	}

	return &CompiledTables{
		ActionCompressed: actionCompressed,
		ActionBase:       actionBase,
		ReduceCompressed: reducePack.Entries,
		ReduceBase:       reducePack.Bases,
		ReduceOwner:      reducePack.Owner,
		NumStates:        numStates,
		NumProductions:   g.Prods.Len(),
	}, nil
}
