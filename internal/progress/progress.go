// Package progress computes day counts for countdown and monthly grids.
package progress

import (
	"time"

	"github.com/marcus/daygrid/internal/dates"
)

// Progress is the day accounting behind one grid.
type Progress struct {
	TotalCells int
	// Elapsed is not capped at TotalCells; use Filled when painting cells.
	Elapsed   int
	Remaining int
}

// Compute returns progress from anchor to end inclusive as seen on today.
// All three are reduced to their local calendar days first.
func Compute(anchor, end, today time.Time) Progress {
	total := dates.DaysBetween(anchor, end) + 1
	if total < 1 {
		total = 1
	}
	elapsed := dates.DaysBetween(anchor, today)
	remaining := total - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return Progress{
		TotalCells: total,
		Elapsed:    elapsed,
		Remaining:  remaining,
	}
}

// Filled returns how many cells count as elapsed, capped at TotalCells.
func (p Progress) Filled() int {
	if p.Elapsed > p.TotalCells {
		return p.TotalCells
	}
	return p.Elapsed
}

// Ratio returns Filled as a fraction of TotalCells.
func (p Progress) Ratio() float64 {
	if p.TotalCells == 0 {
		return 0
	}
	return float64(p.Filled()) / float64(p.TotalCells)
}

// Done reports whether the countdown has run out.
func (p Progress) Done() bool {
	return p.Remaining == 0
}

// MonthSpan is the implicit anchor and end of a monthly grid.
type MonthSpan struct {
	First time.Time
	Last  time.Time
	Progress
}

// Month returns the span and progress of today's calendar month.
// TotalCells equals the number of days in that month.
func Month(today time.Time) MonthSpan {
	first, last := dates.MonthBounds(today)
	return MonthSpan{
		First:    first,
		Last:     last,
		Progress: Compute(first, last, today),
	}
}
