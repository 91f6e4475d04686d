package flow

import (
	"context"

	"github.com/marcus/daygrid/internal/settings"
)

const (
	habitThemeTitle   = "Choose theme"
	habitThemeMessage = "Select dark or light mode"
	habitNameTitle    = "What do you want to track?"
	habitNameHint     = "habit name"
)

func (f *Flow) habit(ctx context.Context) (Result, error) {
	if _, ok := f.ensureTheme(ctx, habitThemeTitle, habitThemeMessage); !ok {
		return Result{State: f.state}, nil
	}
	name, ok := f.ensureLabel(ctx, habitNameTitle, habitNameHint)
	if !ok {
		return Result{State: f.state}, nil
	}
	f.state = Configured

	// Dismissing the main menu still shows the grid.
	var done string
	switch action, _ := f.choose(ctx, name, "", []string{ActionCheckIn, ActionSettings}); action {
	case ActionCheckIn:
		f.checkIn(ctx, name)
		done = ActionCheckIn
	case ActionSettings:
		done, _ = f.habitSettings(ctx)
	}

	res, err := f.present(ctx, f.HabitWidget())
	res.Action = done
	return res, err
}

func (f *Flow) checkIn(ctx context.Context, name string) {
	msg := AddedMessage
	if f.settings.ToggleToday() {
		msg = RemovedMessage
	}
	f.prompter.Notify(ctx, name, msg)
}

func (f *Flow) habitSettings(ctx context.Context) (string, bool) {
	choice, ok := f.choose(ctx, ActionSettings, "", []string{ChangeTheme, ChangeHabit, ResetData})
	if !ok {
		return "", false
	}
	switch choice {
	case ChangeTheme:
		t, ok := f.askTheme(ctx, habitThemeTitle, habitThemeMessage)
		if !ok {
			return "", false
		}
		f.settings.SetTheme(t)
	case ChangeHabit:
		value, ok := f.input(ctx, habitNameTitle, habitNameHint)
		if !ok || !f.settings.SetLabel(value) {
			return "", false
		}
	case ResetData:
		f.settings.ResetCompletions()
	}
	return choice, true
}

// SettingsMenu runs the settings menu of the tracker and reports the
// action taken. A countdown reset leaves the tracker unconfigured.
func (f *Flow) SettingsMenu(ctx context.Context) (string, bool) {
	f.state = f.initialState()
	if f.settings.Tracker().Kind == settings.Countdown {
		return f.countdownSettings(ctx)
	}
	return f.habitSettings(ctx)
}
