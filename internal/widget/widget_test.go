package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/marcus/daygrid/internal/completion"
	"github.com/marcus/daygrid/internal/config"
	"github.com/marcus/daygrid/internal/settings"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func plainRenderer() *Renderer {
	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(termenv.Ascii)
	r := NewRenderer(lr)
	r.Frame = false
	return r
}

func countFilled(cells []Cell) int {
	n := 0
	for _, c := range cells {
		if c.Filled {
			n++
		}
	}
	return n
}

func TestCountdownScenario(t *testing.T) {
	w := Countdown(CountdownInput{
		Theme:  settings.Dark,
		Title:  "Launch",
		Anchor: day(2025, 1, 1),
		Target: day(2025, 1, 10),
		Today:  day(2025, 1, 5),
		Layout: config.CountdownLayout,
	})

	if w.Background != DarkBackground {
		t.Errorf("background = %s", w.Background)
	}
	texts := w.Texts()
	if len(texts) != 2 || texts[0] != "Launch" || texts[1] != "D-6" {
		t.Errorf("texts = %v", texts)
	}
	cells := w.Cells()
	if len(cells) != 10 {
		t.Fatalf("cells = %d, want 10", len(cells))
	}
	if got := countFilled(cells); got != 4 {
		t.Errorf("filled = %d, want 4", got)
	}
	for i, c := range cells {
		want := EmptyFill
		if i < 4 {
			want = CountdownFill
		}
		if c.Color != want {
			t.Errorf("cell %d colour = %s, want %s", i, c.Color, want)
		}
		if c.CornerRadius != 4 || c.Size < 1 {
			t.Errorf("cell %d geometry = %+v", i, c)
		}
	}
}

func TestCountdownPastTargetFillsEverything(t *testing.T) {
	w := Countdown(CountdownInput{
		Theme:  settings.Light,
		Title:  "Done",
		Anchor: day(2025, 1, 1),
		Target: day(2025, 1, 10),
		Today:  day(2025, 2, 1),
		Layout: config.CountdownLayout,
	})
	cells := w.Cells()
	if len(cells) != 10 || countFilled(cells) != 10 {
		t.Errorf("cells=%d filled=%d, want 10/10", len(cells), countFilled(cells))
	}
	if w.Texts()[1] != "D-0" {
		t.Errorf("subtitle = %q", w.Texts()[1])
	}
}

func TestCountdownTooDense(t *testing.T) {
	w := Countdown(CountdownInput{
		Title:  "Decade",
		Anchor: day(2025, 1, 1),
		Target: day(2035, 1, 1),
		Today:  day(2025, 1, 1),
		Layout: config.CountdownLayout,
	})
	if len(w.Cells()) != 0 {
		t.Errorf("expected no cells, got %d", len(w.Cells()))
	}
	texts := w.Texts()
	if texts[len(texts)-1] != TooDenseLabel {
		t.Errorf("texts = %v", texts)
	}
}

func TestHabitMonthGrid(t *testing.T) {
	set := completion.New("2025-06-01", "2025-06-15", "2025-05-31")
	w := Habit(HabitInput{
		Theme:       settings.Light,
		Label:       "read",
		Completions: set,
		Today:       day(2025, 6, 20),
		Layout:      config.HabitLayout,
	})

	cells := w.Cells()
	if len(cells) != 30 {
		t.Fatalf("cells = %d, want 30", len(cells))
	}
	if !cells[0].Filled || !cells[14].Filled || countFilled(cells) != 2 {
		t.Errorf("unexpected fill pattern")
	}
	if cells[0].Color != HabitFill || cells[1].Color != EmptyFill {
		t.Errorf("colours = %s, %s", cells[0].Color, cells[1].Color)
	}

	rows := 0
	for _, c := range w.Body.Children {
		if s, ok := c.(*Stack); ok && s.Axis == Horizontal {
			rows++
		}
	}
	if rows != 3 {
		t.Errorf("rows = %d, want 3", rows)
	}
}

func TestHabit31DayMonthRows(t *testing.T) {
	w := Habit(HabitInput{Label: "x", Today: day(2025, 7, 1), Layout: config.HabitLayout})
	var lengths []int
	for _, c := range w.Body.Children {
		s, ok := c.(*Stack)
		if !ok {
			continue
		}
		n := 0
		for _, cc := range s.Children {
			if _, ok := cc.(Cell); ok {
				n++
			}
		}
		lengths = append(lengths, n)
	}
	if len(lengths) != 3 || lengths[0] != 11 || lengths[1] != 11 || lengths[2] != 9 {
		t.Errorf("row lengths = %v, want [11 11 9]", lengths)
	}
}

func TestWidgetJSON(t *testing.T) {
	w := Countdown(CountdownInput{
		Title:  "Launch",
		Anchor: day(2025, 1, 1),
		Target: day(2025, 1, 3),
		Today:  day(2025, 1, 2),
		Layout: config.CountdownLayout,
	})
	raw, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Background string `json:"background"`
		Body       struct {
			Type     string           `json:"type"`
			Axis     string           `json:"axis"`
			Children []map[string]any `json:"children"`
		} `json:"body"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Body.Type != "stack" || decoded.Body.Axis != "vertical" {
		t.Errorf("body = %+v", decoded.Body)
	}
	if decoded.Body.Children[0]["type"] != "text" || decoded.Body.Children[0]["value"] != "Launch" {
		t.Errorf("first child = %v", decoded.Body.Children[0])
	}
	if !strings.Contains(string(raw), `"type":"cell"`) {
		t.Errorf("expected cells in JSON: %s", raw)
	}
}

func TestRenderPlain(t *testing.T) {
	w := Countdown(CountdownInput{
		Title:  "Launch",
		Anchor: day(2025, 1, 1),
		Target: day(2025, 1, 10),
		Today:  day(2025, 1, 5),
		Layout: config.CountdownLayout,
	})
	out := plainRenderer().Render(w)

	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}
	if strings.TrimSpace(lines[0]) != "Launch" || strings.TrimSpace(lines[1]) != "D-6" {
		t.Errorf("header lines = %q, %q", lines[0], lines[1])
	}
	if got := strings.Count(out, filledGlyph); got != 4 {
		t.Errorf("filled glyphs = %d, want 4", got)
	}
	if got := strings.Count(out, emptyGlyph); got != 6 {
		t.Errorf("empty glyphs = %d, want 6", got)
	}
}

func TestRenderTruncatesLongLabel(t *testing.T) {
	w := Countdown(CountdownInput{
		Title:  "A rather long project title that will not fit",
		Anchor: day(2025, 1, 1),
		Target: day(2025, 1, 10),
		Today:  day(2025, 1, 1),
		Layout: config.CountdownLayout,
	})
	out := plainRenderer().Render(w)
	title := strings.TrimRight(strings.Split(out, "\n")[0], " ")
	if runewidth.StringWidth(title) > minLabelColumns {
		t.Errorf("title not truncated: %q", title)
	}
	if !strings.HasSuffix(title, "…") {
		t.Errorf("expected ellipsis: %q", title)
	}
}

func TestRenderShortCountdownKeepsLabels(t *testing.T) {
	tests := []struct {
		name  string
		days  int
		title string
	}{
		{"one day", 0, "Launch"},
		{"two days", 1, "Launch"},
		{"three days", 2, "Launch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anchor := day(2025, 1, 1)
			w := Countdown(CountdownInput{
				Title:  tt.title,
				Anchor: anchor,
				Target: anchor.AddDate(0, 0, tt.days),
				Today:  anchor,
				Layout: config.CountdownLayout,
			})
			lines := strings.Split(plainRenderer().Render(w), "\n")
			if len(lines) != 2+tt.days+1 {
				t.Fatalf("lines = %q", lines)
			}
			if got := strings.TrimSpace(lines[0]); got != tt.title {
				t.Errorf("title = %q, want %q", got, tt.title)
			}
			want := fmt.Sprintf("D-%d", tt.days+1)
			if got := strings.TrimSpace(lines[1]); got != want {
				t.Errorf("subtitle = %q, want %q", got, want)
			}
		})
	}
}

func TestRenderNeverTruncatesSubtitle(t *testing.T) {
	long := strings.Repeat("x", minLabelColumns+5)
	w := &Widget{Body: (&Stack{Axis: Vertical}).Add(Text{Value: long})}
	if got := plainRenderer().Render(w); got != long {
		t.Errorf("Render = %q, want %q", got, long)
	}
}

func TestRenderNil(t *testing.T) {
	if got := plainRenderer().Render(nil); got != "" {
		t.Errorf("Render(nil) = %q", got)
	}
}

func TestPresentNonInteractive(t *testing.T) {
	var out strings.Builder
	p := &Presenter{Renderer: plainRenderer(), Out: &out}
	w := Habit(HabitInput{Label: "read", Today: day(2025, 6, 1), Layout: config.HabitLayout})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Present(ctx, w); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if !strings.Contains(out.String(), "read") {
		t.Errorf("output missing label: %q", out.String())
	}
}
