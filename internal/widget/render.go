package widget

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Terminal glyphs for one cell. Two columns keep cells roughly square.
const (
	filledGlyph = "██"
	emptyGlyph  = "░░"
)

// minLabelColumns is the narrowest width labels are truncated to, so short
// countdowns with a one-column grid keep a readable title.
const minLabelColumns = 20

// Renderer turns a widget tree into terminal text with lipgloss.
type Renderer struct {
	r *lipgloss.Renderer
	// Frame draws the widget background and padding around the body.
	Frame bool
}

// NewRenderer returns a Renderer using lr, or the default lipgloss
// renderer when lr is nil.
func NewRenderer(lr *lipgloss.Renderer) *Renderer {
	if lr == nil {
		lr = lipgloss.DefaultRenderer()
	}
	return &Renderer{r: lr, Frame: true}
}

// Render returns the widget as a block of text.
func (rd *Renderer) Render(w *Widget) string {
	if w == nil || w.Body == nil {
		return ""
	}
	width := max(gridColumns(w.Body), minLabelColumns)
	body := rd.node(w.Body, width)
	if !rd.Frame {
		return body
	}
	return rd.r.NewStyle().
		Background(lipgloss.Color(w.Background)).
		Padding(1, 2).
		Render(body)
}

func (rd *Renderer) node(n Node, width int) string {
	switch v := n.(type) {
	case *Stack:
		return rd.stack(v, width)
	case Cell:
		glyph := emptyGlyph
		if v.Filled {
			glyph = filledGlyph
		}
		return rd.r.NewStyle().Foreground(lipgloss.Color(v.Color)).Render(glyph)
	case Text:
		value := v.Value
		if v.Truncate && runewidth.StringWidth(value) > width {
			value = runewidth.Truncate(value, width, "…")
		}
		return rd.r.NewStyle().Foreground(lipgloss.Color(v.Color)).Bold(v.Bold).Render(value)
	case Spacer:
		return strings.Repeat(" ", spacerColumns(v))
	}
	return ""
}

func (rd *Renderer) stack(s *Stack, width int) string {
	parts := make([]string, 0, len(s.Children))
	for _, c := range s.Children {
		// Vertical spacers collapse; rows already sit on their own lines.
		if _, ok := c.(Spacer); ok && s.Axis == Vertical {
			continue
		}
		parts = append(parts, rd.node(c, width))
	}
	if len(parts) == 0 {
		return ""
	}
	if s.Axis == Horizontal {
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func spacerColumns(s Spacer) int {
	if s.Length <= 0 {
		return 0
	}
	return 1
}

// gridColumns returns the terminal width of the widest row of cells. It is
// 0 when there is no grid.
func gridColumns(n Node) int {
	widest := 0
	Walk(n, func(node Node) {
		s, ok := node.(*Stack)
		if !ok || s.Axis != Horizontal {
			return
		}
		cols := 0
		for _, c := range s.Children {
			switch v := c.(type) {
			case Cell:
				cols += runewidth.StringWidth(filledGlyph)
			case Spacer:
				cols += spacerColumns(v)
			}
		}
		if cols > widest {
			widest = cols
		}
	})
	return widest
}
