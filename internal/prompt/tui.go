package prompt

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/daygrid/internal/logging"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#444", Dark: "#BBB"})
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666", Dark: "#888"})
)

// TUI prompts on the terminal with bubbletea.
type TUI struct {
	In  io.Reader
	Out io.Writer
}

// NewTUI returns a TUI on stdin/stdout.
func NewTUI() *TUI {
	return &TUI{In: os.Stdin, Out: os.Stdout}
}

func (t *TUI) run(ctx context.Context, m tea.Model) tea.Model {
	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(t.In),
		tea.WithOutput(t.Out),
	)
	final, err := prog.Run()
	if err != nil {
		if ctx.Err() == nil {
			logging.Component("prompt").Warnf("prompt failed: %v", err)
		}
		return nil
	}
	return final
}

// Choose implements Prompter.
func (t *TUI) Choose(ctx context.Context, title, message string, options []string) (string, bool) {
	if len(options) == 0 {
		return "", false
	}
	final, ok := t.run(ctx, newChooseModel(title, message, options)).(chooseModel)
	if !ok || !final.done {
		return "", false
	}
	return final.choice, true
}

// Input implements Prompter.
func (t *TUI) Input(ctx context.Context, title, placeholder string) (string, bool) {
	final, ok := t.run(ctx, newInputModel(title, placeholder)).(inputModel)
	if !ok || !final.done {
		return "", false
	}
	return final.value, final.value != ""
}

// Notify implements Prompter.
func (t *TUI) Notify(ctx context.Context, title, message string) {
	t.run(ctx, notifyModel{title: title, message: message})
}

type option string

func (o option) FilterValue() string { return string(o) }
func (o option) Title() string       { return string(o) }
func (o option) Description() string { return "" }

// chooseModel is a single-selection list. Enter picks, esc or ctrl+c
// cancels.
type chooseModel struct {
	list    list.Model
	message string
	choice  string
	done    bool
}

func newChooseModel(title, message string, options []string) chooseModel {
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = option(o)
	}
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 40, len(options)*delegate.Height()+6)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return chooseModel{list: l, message: message}
}

func (m chooseModel) Init() tea.Cmd {
	return nil
}

func (m chooseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(option); ok {
				m.choice = string(it)
				m.done = true
			}
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m chooseModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	if m.message != "" {
		b.WriteString(messageStyle.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter select • esc cancel"))
	return b.String()
}

// inputModel reads one line of text.
type inputModel struct {
	title string
	input textinput.Model
	value string
	done  bool
}

func newInputModel(title, placeholder string) inputModel {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "> "
	in.Focus()
	return inputModel{title: title, input: in}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.value = strings.TrimSpace(m.input.Value())
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return ""
	}
	return titleStyle.Render(m.title) + "\n" + m.input.View() + "\n" + hintStyle.Render("enter confirm • esc cancel")
}

// notifyModel shows a message until any key.
type notifyModel struct {
	title   string
	message string
	closed  bool
}

func (m notifyModel) Init() tea.Cmd {
	return nil
}

func (m notifyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		m.closed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m notifyModel) View() string {
	if m.closed {
		return ""
	}
	return titleStyle.Render(m.title) + "\n" + m.message + "\n" + hintStyle.Render("press any key")
}
