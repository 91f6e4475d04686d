// Package grid lays a run of day cells out as a fixed number of rows.
//
// The layout is dynamic: columns grow with the number of days so that a
// 31-day month becomes 11+11+9 and a 100-day countdown becomes 34+34+32.
package grid

import (
	"errors"
	"fmt"
	"time"

	"github.com/marcus/daygrid/internal/dates"
)

// DefaultRows is the row count used by both trackers.
const DefaultRows = 3

var (
	// ErrTooDense means cells would be narrower than one pixel.
	ErrTooDense = errors.New("grid too dense")
	// ErrInvalidRows means the requested row count is below 1.
	ErrInvalidRows = errors.New("rows must be at least 1")
)

// Layout is the derived geometry of one grid.
type Layout struct {
	TotalCells   int
	Rows         int
	Cols         int
	LastRowCount int
	CellSize     int
	Spacing      int
}

// Compute lays totalCells out over rows inside a container of the given
// width. A zero or negative total yields an empty layout. When the cells
// would be smaller than 1px the layout is still returned together with
// ErrTooDense so the caller can decide what to show.
func Compute(totalCells, rows, width, padding, spacing int) (Layout, error) {
	if rows < 1 {
		return Layout{}, fmt.Errorf("%w: %d", ErrInvalidRows, rows)
	}
	l := Layout{Rows: rows, Spacing: spacing}
	if totalCells <= 0 {
		return l, nil
	}

	l.TotalCells = totalCells
	l.Cols = (totalCells + rows - 1) / rows
	lengths := l.RowLengths()
	l.LastRowCount = lengths[len(lengths)-1]

	usable := width - 2*padding - (l.Cols-1)*spacing
	if usable < l.Cols {
		if usable > 0 {
			l.CellSize = usable / l.Cols
		}
		return l, fmt.Errorf("%w: %d columns in %dpx", ErrTooDense, l.Cols, width)
	}
	l.CellSize = usable / l.Cols
	return l, nil
}

// Empty reports whether the layout has no cells.
func (l Layout) Empty() bool {
	return l.TotalCells == 0
}

// RowLengths returns the number of cells in each non-empty row. Every row
// but the last holds Cols cells. When the total is too small to reach the
// final rows (4 cells over 3 rows is 2+2) those rows are omitted.
func (l Layout) RowLengths() []int {
	if l.TotalCells <= 0 || l.Cols <= 0 {
		return nil
	}
	lengths := make([]int, 0, l.Rows)
	left := l.TotalCells
	for r := 0; r < l.Rows && left > 0; r++ {
		n := l.Cols
		if n > left {
			n = left
		}
		lengths = append(lengths, n)
		left -= n
	}
	return lengths
}

// Index returns the flattened 0-based index of row r, column c.
func (l Layout) Index(r, c int) int {
	return r*l.Cols + c
}

// Cell is one planned cell.
type Cell struct {
	Index  int
	Filled bool
}

// Filler decides whether the cell at a 0-based index is filled.
type Filler func(idx int) bool

// Plan returns the cells row by row with fill decided by fill.
func (l Layout) Plan(fill Filler) [][]Cell {
	lengths := l.RowLengths()
	rows := make([][]Cell, len(lengths))
	for r, n := range lengths {
		rows[r] = make([]Cell, n)
		for c := 0; c < n; c++ {
			idx := l.Index(r, c)
			rows[r][c] = Cell{Index: idx, Filled: fill != nil && fill(idx)}
		}
	}
	return rows
}

// FilledCount counts filled cells in a plan.
func FilledCount(plan [][]Cell) int {
	n := 0
	for _, row := range plan {
		for _, c := range row {
			if c.Filled {
				n++
			}
		}
	}
	return n
}

// Elapsed fills the first n cells. Callers pass the capped elapsed count.
func Elapsed(n int) Filler {
	return func(idx int) bool {
		return idx < n
	}
}

// Membership is what OnDates needs from a completion set.
type Membership interface {
	Has(key string) bool
}

// OnDates fills a cell when the day anchor+idx is in set.
func OnDates(anchor time.Time, set Membership) Filler {
	return func(idx int) bool {
		if set == nil {
			return false
		}
		return set.Has(dates.Format(dates.AddDays(anchor, idx)))
	}
}
