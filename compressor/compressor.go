// Package compressor implements the greedy first-fit row-displacement
// packing used to compress the dense LALR action and goto tables into
// flat int16 vectors.
package compressor

import (
	"errors"
	"sort"
)

// ErrTableOverflow is returned when a packed table would need an index
// beyond the signed 16-bit range.
var ErrTableOverflow = errors.New("compressor: packed table exceeds the signed 16-bit range")

const int16Max = 1<<15 - 1

// ForbiddenValue marks an Owner slot as unclaimed by any row.
const ForbiddenValue = -1

// Table is the result of packing a dense [row][col]int matrix: a per-row
// base offset, the packed values at stride 1, and a parallel Owner vector
// recording which row actually claimed each slot (so that a slot two
// rows' bases happen to both reach, but only one of them filled, isn't
// misread as belonging to the row that didn't fill it).
type Table struct {
	RowCount int
	ColCount int
	Bases    []int
	Entries  []int16
	Owner    []int16
}

type rowInfo struct {
	row  int
	cols []int
}

// Pack places each row of dense at the smallest non-negative base such
// that none of its filled columns collides with a slot already claimed by
// an earlier-placed row, scanning rows in descending order of filled-
// column count (ties broken by original row order) for a tighter packing.
// isFilled reports whether dense[row][col] must occupy a slot at all, letting callers
// over-allocate the dense matrix and supply an easily swept empty value.
func Pack(dense [][]int, isFilled func(row, col int) bool) (*Table, error) {
	rowCount := len(dense)
	if rowCount == 0 {
		return &Table{}, nil
	}
	colCount := len(dense[0])

	rows := make([]rowInfo, rowCount)
	for r := 0; r < rowCount; r++ {
		rows[r].row = r
		for c := 0; c < colCount; c++ {
			if isFilled(r, c) {
				rows[r].cols = append(rows[r].cols, c)
			}
		}
	}

	order := make([]rowInfo, rowCount)
	copy(order, rows)
	sort.SliceStable(order, func(i, j int) bool { return len(order[i].cols) > len(order[j].cols) })

	used := map[int]bool{}
	bases := make([]int, rowCount)
	maxSlot := 0

	for _, ri := range order {
		if len(ri.cols) == 0 {
			bases[ri.row] = 0
			continue
		}
		base := 0
		for {
			collision := false
			for _, c := range ri.cols {
				if used[base+c] {
					collision = true
					break
				}
			}
			if !collision {
				break
			}
			base++
		}
		for _, c := range ri.cols {
			used[base+c] = true
		}
		bases[ri.row] = base
		if top := base + colCount; top > maxSlot {
			maxSlot = top
		}
	}

	if maxSlot > int16Max {
		return nil, ErrTableOverflow
	}

	entries := make([]int16, maxSlot)
	owner := make([]int16, maxSlot)
	for i := range owner {
		owner[i] = ForbiddenValue
	}
	for r := 0; r < rowCount; r++ {
		base := bases[r]
		for _, c := range rows[r].cols {
			entries[base+c] = int16(dense[r][c])
			owner[base+c] = int16(r)
		}
	}

	return &Table{RowCount: rowCount, ColCount: colCount, Bases: bases, Entries: entries, Owner: owner}, nil
}

// Lookup decodes (row, col) from a packed Table, returning ok=false if the
// slot at that base was never claimed by row (i.e. the cell was absent in
// the original dense matrix).
func (t *Table) Lookup(row, col int) (value int, ok bool) {
	if row < 0 || row >= t.RowCount || col < 0 || col >= t.ColCount {
		return 0, false
	}
	slot := t.Bases[row] + col
	if slot >= len(t.Owner) || t.Owner[slot] != int16(row) {
		return 0, false
	}
	return int(t.Entries[slot]), true
}
