package widget

import (
	"errors"
	"fmt"
	"time"

	"github.com/marcus/daygrid/internal/completion"
	"github.com/marcus/daygrid/internal/config"
	"github.com/marcus/daygrid/internal/grid"
	"github.com/marcus/daygrid/internal/progress"
	"github.com/marcus/daygrid/internal/settings"
)

// Palette colours.
const (
	DarkBackground  = "#242424"
	LightBackground = "#FFFFFF"
	DarkTitle       = "#FFFFFF"
	LightTitle      = "#000000"
	DarkSubtitle    = "#AAAAAA"
	LightSubtitle   = "#8E8E93"
	CountdownFill   = "#FF4500"
	HabitFill       = "#4CD964"
	EmptyFill       = "#E5E5EA"
)

// TooDenseLabel replaces the grid when cells would not fit.
const TooDenseLabel = "grid too dense"

type palette struct {
	background, title, subtitle string
}

func paletteFor(t settings.Theme) palette {
	if t == settings.Dark {
		return palette{DarkBackground, DarkTitle, DarkSubtitle}
	}
	return palette{LightBackground, LightTitle, LightSubtitle}
}

// CountdownInput is everything a countdown widget shows.
type CountdownInput struct {
	Theme  settings.Theme
	Title  string
	Anchor time.Time
	Target time.Time
	Today  time.Time
	Layout config.Layout
}

// Countdown builds the countdown widget: title, D-N subtitle and the grid
// of days from install to target with elapsed days filled.
func Countdown(in CountdownInput) *Widget {
	pal := paletteFor(in.Theme)
	p := progress.Compute(in.Anchor, in.Target, in.Today)

	body := &Stack{Axis: Vertical}
	body.Add(
		Text{Value: in.Title, Size: 16, Bold: true, Color: pal.title, Truncate: true},
		Spacer{Length: in.Layout.Spacing},
		Text{Value: fmt.Sprintf("D-%d", p.Remaining), Size: 14, Color: pal.subtitle},
		Spacer{Length: in.Layout.Spacing},
	)
	addGrid(body, p.TotalCells, in.Layout, grid.Elapsed(p.Filled()), CountdownFill, pal)

	return &Widget{
		Background: pal.background,
		Padding:    in.Layout.Padding,
		Width:      in.Layout.WidgetWidth,
		Body:       body,
	}
}

// HabitInput is everything a habit widget shows.
type HabitInput struct {
	Theme       settings.Theme
	Label       string
	Completions completion.Set
	Today       time.Time
	Layout      config.Layout
}

// Habit builds the habit widget: the habit name and a grid of the current
// month with checked-in days filled.
func Habit(in HabitInput) *Widget {
	pal := paletteFor(in.Theme)
	month := progress.Month(in.Today)

	body := &Stack{Axis: Vertical}
	body.Add(
		Text{Value: in.Label, Size: 16, Bold: true, Color: pal.title, Truncate: true},
		Spacer{Length: 4},
	)
	addGrid(body, month.TotalCells, in.Layout, grid.OnDates(month.First, in.Completions), HabitFill, pal)

	return &Widget{
		Background: pal.background,
		Padding:    in.Layout.Padding,
		Width:      in.Layout.WidgetWidth,
		Body:       body,
	}
}

func addGrid(body *Stack, total int, l config.Layout, fill grid.Filler, fillColor string, pal palette) {
	layout, err := grid.Compute(total, l.Rows, l.WidgetWidth, l.Padding, l.Spacing)
	if err != nil {
		if errors.Is(err, grid.ErrTooDense) {
			body.Add(Text{Value: TooDenseLabel, Size: 14, Color: pal.subtitle})
		}
		return
	}

	plan := layout.Plan(fill)
	for r, row := range plan {
		h := &Stack{Axis: Horizontal}
		for c, cell := range row {
			color := EmptyFill
			if cell.Filled {
				color = fillColor
			}
			h.Add(Cell{Size: layout.CellSize, Color: color, CornerRadius: l.CornerRadius, Filled: cell.Filled})
			if c < len(row)-1 {
				h.Add(Spacer{Length: l.Spacing})
			}
		}
		body.Add(h)
		if r < len(plan)-1 {
			body.Add(Spacer{Length: l.Spacing})
		}
	}
}
