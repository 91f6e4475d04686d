package widget

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// presentModel shows one rendered widget until any key is pressed.
type presentModel struct {
	content string
	width   int
	height  int
	hint    lipgloss.Style
}

func newPresentModel(content string) presentModel {
	return presentModel{
		content: content,
		hint:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666", Dark: "#888"}),
	}
}

func (m presentModel) Init() tea.Cmd {
	return nil
}

func (m presentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m presentModel) View() string {
	body := lipgloss.JoinVertical(lipgloss.Left, m.content, "", m.hint.Render("press any key to close"))
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// Presenter is the interactive render sink.
type Presenter struct {
	Renderer *Renderer
	// Interactive selects the full-screen view; otherwise the widget is
	// printed to Out once.
	Interactive bool
	In          io.Reader
	Out         io.Writer
}

// NewPresenter returns a Presenter on stdin/stdout.
func NewPresenter(r *Renderer, interactive bool) *Presenter {
	return &Presenter{Renderer: r, Interactive: interactive, In: os.Stdin, Out: os.Stdout}
}

// Present shows w. A cancelled context closes the view without error.
func (p *Presenter) Present(ctx context.Context, w *Widget) error {
	content := p.Renderer.Render(w)
	if !p.Interactive {
		_, err := fmt.Fprintln(p.Out, content)
		return err
	}

	prog := tea.NewProgram(newPresentModel(content),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
	)
	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("presenting widget: %w", err)
	}
	return nil
}
