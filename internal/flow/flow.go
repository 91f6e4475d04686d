// Package flow runs the prompt-then-persist setup and menus of each
// tracker and hands the resulting widget to a sink.
//
// A run moves through Unconfigured, AwaitingChoice and Configured.
// Dismissing a prompt returns the run to where it was without writing
// anything, so a cancelled run never leaves partial state behind.
package flow

import (
	"context"
	"fmt"

	"github.com/marcus/daygrid/internal/config"
	"github.com/marcus/daygrid/internal/dates"
	"github.com/marcus/daygrid/internal/logging"
	"github.com/marcus/daygrid/internal/prompt"
	"github.com/marcus/daygrid/internal/settings"
	"github.com/marcus/daygrid/internal/widget"
)

// State is where a run is in its setup.
type State int

const (
	Unconfigured State = iota
	AwaitingChoice
	Configured
)

func (s State) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case AwaitingChoice:
		return "awaiting-choice"
	case Configured:
		return "configured"
	default:
		return "unknown"
	}
}

// Mode is how the run was launched.
type Mode int

const (
	// Foreground prompts for anything missing and presents the widget.
	Foreground Mode = iota
	// Background never prompts and updates the standing surface.
	Background
)

// Sink receives finished widgets.
type Sink interface {
	// Present shows w interactively.
	Present(ctx context.Context, w *widget.Widget) error
	// SetWidget replaces the standing surface of t.
	SetWidget(t settings.Tracker, w *widget.Widget) error
}

// Menu labels.
const (
	ThemeDark  = "Dark"
	ThemeLight = "Light"

	ActionCheckIn  = "Check-in"
	ActionSettings = "Settings"

	ChangeTheme  = "Change Theme"
	ChangeTitle  = "Change Title"
	ChangeTarget = "Change Target Date"
	ChangeHabit  = "Change Habit"
	ResetAll     = "Reset"
	ResetData    = "Reset Data"

	AddedMessage   = "✅ Added today's entry"
	RemovedMessage = "❌ Removed today's entry"
)

// Result describes a finished run.
type Result struct {
	State State
	// Widget is nil when nothing was rendered.
	Widget *widget.Widget
	// Action is the menu entry that was carried out, if any.
	Action string
}

// Flow drives one tracker.
type Flow struct {
	settings *settings.Settings
	prompter prompt.Prompter
	sink     Sink
	layouts  config.Layouts
	log      *logging.Logger

	state State
}

// New returns a Flow for the tracker behind s.
func New(s *settings.Settings, p prompt.Prompter, sink Sink, layouts config.Layouts) *Flow {
	return &Flow{
		settings: s,
		prompter: p,
		sink:     sink,
		layouts:  layouts,
		log:      logging.Component("flow"),
	}
}

// State returns the state the last run ended in.
func (f *Flow) State() State {
	return f.state
}

// Run executes the tracker's flow in mode.
func (f *Flow) Run(ctx context.Context, mode Mode) (Result, error) {
	f.state = f.initialState()
	f.log.Debugf("run %s mode=%d state=%s", f.settings.Tracker(), mode, f.state)

	if mode == Background {
		return f.background()
	}
	switch f.settings.Tracker().Kind {
	case settings.Countdown:
		return f.countdown(ctx)
	case settings.Habit:
		return f.habit(ctx)
	}
	return Result{State: f.state}, fmt.Errorf("unknown tracker kind %q", f.settings.Tracker().Kind)
}

func (f *Flow) initialState() State {
	snap := f.settings.Snapshot()
	if !snap.HasTheme || !snap.HasLabel {
		return Unconfigured
	}
	if f.settings.Tracker().Kind == settings.Countdown && (!snap.HasTarget || !snap.HasAnchor) {
		return Unconfigured
	}
	return Configured
}

// choose wraps a prompt with the AwaitingChoice transition. On cancel the
// state returns to what it was before.
func (f *Flow) choose(ctx context.Context, title, message string, options []string) (string, bool) {
	prev := f.state
	f.state = AwaitingChoice
	choice, ok := f.prompter.Choose(ctx, title, message, options)
	f.state = prev
	if !ok {
		f.log.Debugf("%q dismissed", title)
	}
	return choice, ok
}

func (f *Flow) input(ctx context.Context, title, placeholder string) (string, bool) {
	prev := f.state
	f.state = AwaitingChoice
	value, ok := f.prompter.Input(ctx, title, placeholder)
	f.state = prev
	if !ok {
		f.log.Debugf("%q dismissed", title)
	}
	return value, ok
}

// askTheme prompts for a theme without storing it.
func (f *Flow) askTheme(ctx context.Context, title, message string) (settings.Theme, bool) {
	choice, ok := f.choose(ctx, title, message, []string{ThemeDark, ThemeLight})
	if !ok {
		return "", false
	}
	t, _ := settings.ParseTheme(choice)
	return t, true
}

func (f *Flow) ensureTheme(ctx context.Context, title, message string) (settings.Theme, bool) {
	if t, ok := f.settings.Theme(); ok {
		return t, true
	}
	t, ok := f.askTheme(ctx, title, message)
	if !ok {
		return "", false
	}
	f.settings.SetTheme(t)
	return t, true
}

func (f *Flow) ensureLabel(ctx context.Context, title, placeholder string) (string, bool) {
	if l, ok := f.settings.Label(); ok {
		return l, true
	}
	value, ok := f.input(ctx, title, placeholder)
	if !ok || !f.settings.SetLabel(value) {
		return "", false
	}
	return f.settings.LabelOrDefault(), true
}

// askDate prompts for a YYYY-MM-DD date. Malformed input counts as
// cancelled.
func (f *Flow) askDate(ctx context.Context, title, placeholder string) (string, bool) {
	value, ok := f.input(ctx, title, placeholder)
	if !ok {
		return "", false
	}
	if _, err := dates.Parse(value); err != nil {
		f.log.Debugf("rejecting date input %q", value)
		return "", false
	}
	return value, true
}

func (f *Flow) present(ctx context.Context, w *widget.Widget) (Result, error) {
	f.state = Configured
	if err := f.sink.Present(ctx, w); err != nil {
		return Result{State: f.state, Widget: w}, fmt.Errorf("presenting %s: %w", f.settings.Tracker(), err)
	}
	return Result{State: f.state, Widget: w}, nil
}

// background renders without prompting. A countdown without target and
// install date renders nothing.
func (f *Flow) background() (Result, error) {
	var w *widget.Widget
	switch f.settings.Tracker().Kind {
	case settings.Countdown:
		w = f.CountdownWidget()
	case settings.Habit:
		w = f.HabitWidget()
	}
	if w == nil {
		f.log.Debugf("%s not configured, leaving surface alone", f.settings.Tracker())
		return Result{State: f.state}, nil
	}
	if err := f.sink.SetWidget(f.settings.Tracker(), w); err != nil {
		return Result{State: f.state, Widget: w}, fmt.Errorf("updating surface for %s: %w", f.settings.Tracker(), err)
	}
	return Result{State: f.state, Widget: w}, nil
}

// CountdownWidget builds the countdown from stored values with background
// defaults. It returns nil when the target or install date is missing.
func (f *Flow) CountdownWidget() *widget.Widget {
	snap := f.settings.Snapshot()
	if !snap.HasTarget || !snap.HasAnchor {
		return nil
	}
	return widget.Countdown(widget.CountdownInput{
		Theme:  snap.Theme,
		Title:  snap.Label,
		Anchor: snap.Anchor,
		Target: snap.Target,
		Today:  f.settings.Today(),
		Layout: f.layouts.Countdown,
	})
}

// HabitWidget builds the habit grid from stored values with background
// defaults.
func (f *Flow) HabitWidget() *widget.Widget {
	snap := f.settings.Snapshot()
	return widget.Habit(widget.HabitInput{
		Theme:       snap.Theme,
		Label:       snap.Label,
		Completions: f.settings.Completions(),
		Today:       f.settings.Today(),
		Layout:      f.layouts.Habit,
	})
}

// Widget builds the widget for the tracker's kind from stored values.
func (f *Flow) Widget() *widget.Widget {
	if f.settings.Tracker().Kind == settings.Countdown {
		return f.CountdownWidget()
	}
	return f.HabitWidget()
}
