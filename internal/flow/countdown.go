package flow

import (
	"context"

	"github.com/marcus/daygrid/internal/dates"
)

const (
	countdownThemeTitle  = "Choose Theme"
	countdownTitleTitle  = "Widget Title"
	countdownTitleHint   = "e.g. My Project"
	countdownTargetTitle = "Target Date (YYYY-MM-DD)"
	countdownTargetHint  = "2025-12-31"
)

func (f *Flow) countdown(ctx context.Context) (Result, error) {
	if _, ok := f.ensureTheme(ctx, countdownThemeTitle, ""); !ok {
		return Result{State: f.state}, nil
	}
	if _, ok := f.ensureLabel(ctx, countdownTitleTitle, countdownTitleHint); !ok {
		return Result{State: f.state}, nil
	}
	if !f.ensureTarget(ctx) {
		return Result{State: f.state}, nil
	}

	w := f.CountdownWidget()
	if w == nil {
		// A target without install date can only come from an import.
		f.log.Warnf("%s has a target but no install date", f.settings.Tracker())
		return Result{State: f.state}, nil
	}
	return f.present(ctx, w)
}

// ensureTarget stores the target on first set together with today as the
// install date.
func (f *Flow) ensureTarget(ctx context.Context) bool {
	if _, ok := f.settings.Target(); ok {
		return true
	}
	value, ok := f.askDate(ctx, countdownTargetTitle, countdownTargetHint)
	if !ok {
		return false
	}
	d, _ := dates.Parse(value)
	f.settings.SetTarget(d)
	f.settings.RecordInstall()
	return true
}

func (f *Flow) countdownSettings(ctx context.Context) (string, bool) {
	choice, ok := f.choose(ctx, ActionSettings, "", []string{ChangeTheme, ChangeTitle, ChangeTarget, ResetAll})
	if !ok {
		return "", false
	}
	switch choice {
	case ChangeTheme:
		t, ok := f.askTheme(ctx, countdownThemeTitle, "")
		if !ok {
			return "", false
		}
		f.settings.SetTheme(t)
	case ChangeTitle:
		value, ok := f.input(ctx, countdownTitleTitle, countdownTitleHint)
		if !ok || !f.settings.SetLabel(value) {
			return "", false
		}
	case ChangeTarget:
		value, ok := f.askDate(ctx, countdownTargetTitle, countdownTargetHint)
		if !ok {
			return "", false
		}
		d, _ := dates.Parse(value)
		f.settings.SetTarget(d)
		// The install date survives a target change so progress keeps its
		// origin.
		if _, ok := f.settings.Anchor(); !ok {
			f.settings.RecordInstall()
		}
	case ResetAll:
		f.settings.Reset()
		f.state = Unconfigured
	}
	return choice, true
}
