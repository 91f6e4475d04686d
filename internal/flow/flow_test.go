package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marcus/daygrid/internal/config"
	"github.com/marcus/daygrid/internal/logging"
	"github.com/marcus/daygrid/internal/prompt"
	"github.com/marcus/daygrid/internal/settings"
	"github.com/marcus/daygrid/internal/widget"
)

type recordingSink struct {
	presented []*widget.Widget
	surfaces  map[string]*widget.Widget
	err       error
}

func (s *recordingSink) Present(_ context.Context, w *widget.Widget) error {
	s.presented = append(s.presented, w)
	return s.err
}

func (s *recordingSink) SetWidget(t settings.Tracker, w *widget.Widget) error {
	if s.surfaces == nil {
		s.surfaces = make(map[string]*widget.Widget)
	}
	s.surfaces[t.String()] = w
	return s.err
}

type harness struct {
	store  *settings.MemoryStore
	answer *prompt.Scripted
	sink   *recordingSink
	flow   *Flow
}

func newHarness(kind settings.Kind, seed map[string]string, answers ...string) *harness {
	store := settings.NewMemoryStore(seed)
	clock := func() time.Time { return time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local) }
	s := settings.New(store, settings.Tracker{Kind: kind}, settings.WithClock(clock), settings.WithLogger(logging.Discard()))
	answer := prompt.NewScripted(answers...)
	sink := &recordingSink{}
	layouts := config.Layouts{Countdown: config.CountdownLayout, Habit: config.HabitLayout}
	return &harness{store: store, answer: answer, sink: sink, flow: New(s, answer, sink, layouts)}
}

func assertValues(t *testing.T, got, want map[string]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("store = %v, want %v", got, want)
		return
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("store[%s] = %q, want %q", k, got[k], v)
		}
	}
}

func TestCountdownFirstRun(t *testing.T) {
	h := newHarness(settings.Countdown, nil, ThemeDark, "Launch", "2025-06-24")
	res, err := h.flow.Run(context.Background(), Foreground)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	assertValues(t, h.store.Values(), map[string]string{
		"countdownTheme":       "dark",
		"countdownTitle":       "Launch",
		"countdownTargetDate":  "2025-06-24",
		"countdownInstallDate": "2025-06-15",
	})
	if res.State != Configured || h.flow.State() != Configured {
		t.Errorf("state = %s", res.State)
	}
	if len(h.sink.presented) != 1 {
		t.Fatalf("presented %d widgets, want 1", len(h.sink.presented))
	}
	w := h.sink.presented[0]
	if len(w.Cells()) != 10 || w.Texts()[1] != "D-10" {
		t.Errorf("cells=%d texts=%v", len(w.Cells()), w.Texts())
	}
}

func TestCountdownInvalidTargetAborts(t *testing.T) {
	h := newHarness(settings.Countdown, nil, ThemeLight, "Launch", "24/06/2025")
	res, err := h.flow.Run(context.Background(), Foreground)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	values := h.store.Values()
	if _, ok := values["countdownTargetDate"]; ok {
		t.Error("invalid target must not be stored")
	}
	if _, ok := values["countdownInstallDate"]; ok {
		t.Error("install date must not be recorded without a target")
	}
	if res.State != Unconfigured || len(h.sink.presented) != 0 {
		t.Errorf("state=%s presented=%d", res.State, len(h.sink.presented))
	}
}

func TestCancelLeavesStateUnchanged(t *testing.T) {
	for _, kind := range []settings.Kind{settings.Countdown, settings.Habit} {
		t.Run(string(kind), func(t *testing.T) {
			h := newHarness(kind, nil, prompt.Cancel)
			res, err := h.flow.Run(context.Background(), Foreground)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(h.store.Values()) != 0 {
				t.Errorf("store written on cancel: %v", h.store.Values())
			}
			if res.State != Unconfigured || res.Widget != nil || len(h.sink.presented) != 0 {
				t.Errorf("unexpected result %+v", res)
			}
		})
	}
}

func TestConfiguredCountdownDoesNotPrompt(t *testing.T) {
	h := newHarness(settings.Countdown, map[string]string{
		"countdownTheme":       "light",
		"countdownTitle":       "Trip",
		"countdownTargetDate":  "2025-07-01",
		"countdownInstallDate": "2025-06-01",
	})
	if _, err := h.flow.Run(context.Background(), Foreground); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if asked := h.answer.Asked(); len(asked) != 0 {
		t.Errorf("asked %v", asked)
	}
	if len(h.sink.presented) != 1 {
		t.Errorf("presented %d", len(h.sink.presented))
	}
}

func TestCountdownBackground(t *testing.T) {
	h := newHarness(settings.Countdown, nil)
	res, err := h.flow.Run(context.Background(), Background)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Widget != nil || len(h.sink.surfaces) != 0 {
		t.Error("unconfigured countdown must render nothing in background")
	}

	h = newHarness(settings.Countdown, map[string]string{
		"countdownTargetDate":  "2025-06-20",
		"countdownInstallDate": "2025-06-10",
	})
	if _, err := h.flow.Run(context.Background(), Background); err != nil {
		t.Fatalf("Run: %v", err)
	}
	w := h.sink.surfaces["countdown"]
	if w == nil {
		t.Fatal("expected a standing surface")
	}
	if w.Texts()[0] != "Countdown" || w.Background != widget.LightBackground {
		t.Errorf("defaults not applied: %v %s", w.Texts(), w.Background)
	}
	if len(h.answer.Asked()) != 0 || len(h.sink.presented) != 0 {
		t.Error("background must not prompt or present")
	}
}

func TestHabitFirstRunCheckIn(t *testing.T) {
	h := newHarness(settings.Habit, nil, ThemeLight, "Reading", ActionCheckIn)
	res, err := h.flow.Run(context.Background(), Foreground)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertValues(t, h.store.Values(), map[string]string{
		"habitTrackerTheme":       "light",
		"habitTrackerName":        "reading",
		"singleHabitTrackerDates": `["2025-06-15"]`,
	})
	if res.Action != ActionCheckIn {
		t.Errorf("action = %q", res.Action)
	}
	notices := h.answer.Notices()
	if len(notices) != 1 || notices[0].Title != "reading" || notices[0].Message != AddedMessage {
		t.Errorf("notices = %v", notices)
	}
	if n := len(h.sink.presented); n != 1 {
		t.Fatalf("presented %d", n)
	}
	cells := h.sink.presented[0].Cells()
	if len(cells) != 30 || !cells[14].Filled {
		t.Errorf("today's cell should be filled")
	}
}

func TestHabitCheckInTwiceRemoves(t *testing.T) {
	h := newHarness(settings.Habit, map[string]string{
		"habitTrackerTheme":       "dark",
		"habitTrackerName":        "run",
		"singleHabitTrackerDates": `["2025-06-14","2025-06-15"]`,
	}, ActionCheckIn)
	if _, err := h.flow.Run(context.Background(), Foreground); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := h.store.Values()["singleHabitTrackerDates"]; got != `["2025-06-14"]` {
		t.Errorf("dates = %s", got)
	}
	if n := h.answer.Notices(); len(n) != 1 || n[0].Message != RemovedMessage {
		t.Errorf("notices = %v", n)
	}
}

func TestHabitMenuDismissStillPresents(t *testing.T) {
	seed := map[string]string{"habitTrackerTheme": "dark", "habitTrackerName": "run"}
	h := newHarness(settings.Habit, seed, prompt.Cancel)
	res, err := h.flow.Run(context.Background(), Foreground)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Action != "" || len(h.sink.presented) != 1 {
		t.Errorf("action=%q presented=%d", res.Action, len(h.sink.presented))
	}
	assertValues(t, h.store.Values(), seed)
}

func TestHabitSettings(t *testing.T) {
	seed := map[string]string{
		"habitTrackerTheme":       "dark",
		"habitTrackerName":        "run",
		"singleHabitTrackerDates": `["2025-06-14"]`,
	}
	tests := []struct {
		name    string
		answers []string
		key     string
		want    string
	}{
		{"change theme", []string{ActionSettings, ChangeTheme, ThemeLight}, "habitTrackerTheme", "light"},
		{"change habit", []string{ActionSettings, ChangeHabit, "  Swim "}, "habitTrackerName", "swim"},
		{"reset data", []string{ActionSettings, ResetData}, "singleHabitTrackerDates", "[]"},
		{"cancel change", []string{ActionSettings, ChangeHabit, prompt.Cancel}, "habitTrackerName", "run"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(settings.Habit, seed, tt.answers...)
			if _, err := h.flow.Run(context.Background(), Foreground); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := h.store.Values()[tt.key]; got != tt.want {
				t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
			}
			if len(h.sink.presented) != 1 {
				t.Fatalf("presented %d", len(h.sink.presented))
			}
		})
	}
}

func TestHabitPresentsFreshValues(t *testing.T) {
	h := newHarness(settings.Habit, map[string]string{
		"habitTrackerTheme": "dark",
		"habitTrackerName":  "run",
	}, ActionSettings, ChangeTheme, ThemeLight)
	if _, err := h.flow.Run(context.Background(), Foreground); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if bg := h.sink.presented[0].Background; bg != widget.LightBackground {
		t.Errorf("background = %s, want the new light theme", bg)
	}
}

func TestHabitBackgroundDefaults(t *testing.T) {
	h := newHarness(settings.Habit, nil)
	if _, err := h.flow.Run(context.Background(), Background); err != nil {
		t.Fatalf("Run: %v", err)
	}
	w := h.sink.surfaces["habit"]
	if w == nil || w.Texts()[0] != "habit" {
		t.Fatalf("surface = %v", w)
	}
}

func TestCountdownSettingsMenu(t *testing.T) {
	seed := map[string]string{
		"countdownTheme":       "dark",
		"countdownTitle":       "Trip",
		"countdownTargetDate":  "2025-07-01",
		"countdownInstallDate": "2025-06-01",
	}

	h := newHarness(settings.Countdown, seed, ChangeTarget, "2025-08-01")
	if action, ok := h.flow.SettingsMenu(context.Background()); !ok || action != ChangeTarget {
		t.Fatalf("SettingsMenu = (%q, %v)", action, ok)
	}
	values := h.store.Values()
	if values["countdownTargetDate"] != "2025-08-01" || values["countdownInstallDate"] != "2025-06-01" {
		t.Errorf("target change should keep install date: %v", values)
	}

	h = newHarness(settings.Countdown, seed, ChangeTarget, "soon")
	if _, ok := h.flow.SettingsMenu(context.Background()); ok {
		t.Error("invalid date should cancel")
	}
	assertValues(t, h.store.Values(), seed)

	h = newHarness(settings.Countdown, seed, ChangeTitle, "Holiday")
	h.flow.SettingsMenu(context.Background())
	if got := h.store.Values()["countdownTitle"]; got != "Holiday" {
		t.Errorf("title = %q", got)
	}

	h = newHarness(settings.Countdown, seed, ResetAll)
	if _, ok := h.flow.SettingsMenu(context.Background()); !ok {
		t.Fatal("reset should succeed")
	}
	if len(h.store.Values()) != 0 || h.flow.State() != Unconfigured {
		t.Errorf("reset left %v in state %s", h.store.Values(), h.flow.State())
	}
}

func TestSinkErrorsAreReturned(t *testing.T) {
	h := newHarness(settings.Habit, nil)
	h.sink.err = errors.New("disk full")
	if _, err := h.flow.Run(context.Background(), Background); err == nil {
		t.Error("expected surface error")
	}
}

func TestWriteFailuresStillRender(t *testing.T) {
	h := newHarness(settings.Habit, nil, ThemeDark, "Read", prompt.Cancel)
	h.store.FailWrites = true
	if _, err := h.flow.Run(context.Background(), Foreground); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.sink.presented) != 1 {
		t.Errorf("presented %d, want 1", len(h.sink.presented))
	}
}

func TestStateString(t *testing.T) {
	if Unconfigured.String() != "unconfigured" || AwaitingChoice.String() != "awaiting-choice" || Configured.String() != "configured" {
		t.Error("unexpected State strings")
	}
}
