// Package settings is the typed facade over the key-value store. It is the
// only package that writes tracker state.
//
// Reads never fail: store errors and malformed values are logged and
// treated as absent. Writes are best effort: failures are logged and
// swallowed, and the caller carries on with what it has in memory.
package settings

import (
	"strings"
	"time"

	"github.com/marcus/daygrid/internal/completion"
	"github.com/marcus/daygrid/internal/dates"
	"github.com/marcus/daygrid/internal/logging"
)

// Store is the persistence facade. *db.DB implements it.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Theme is the widget colour scheme.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// ParseTheme accepts dark or light.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Dark:
		return Dark, true
	case Light:
		return Light, true
	}
	return "", false
}

// DefaultLabel is shown when no label is stored.
func DefaultLabel(k Kind) string {
	if k == Habit {
		return "habit"
	}
	return "Countdown"
}

// Settings reads and writes one tracker's values.
type Settings struct {
	store   Store
	tracker Tracker
	keys    Keys
	clock   dates.Clock
	log     *logging.Logger
}

// Option configures Settings.
type Option func(*Settings)

// WithClock overrides time.Now.
func WithClock(c dates.Clock) Option {
	return func(s *Settings) { s.clock = c }
}

// WithLogger overrides the component logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Settings) { s.log = l }
}

// New returns Settings for tracker backed by store.
func New(store Store, tracker Tracker, opts ...Option) *Settings {
	s := &Settings{
		store:   store,
		tracker: tracker,
		keys:    KeysFor(tracker),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Component("settings")
	}
	return s
}

// Tracker returns the tracker these settings belong to.
func (s *Settings) Tracker() Tracker {
	return s.tracker
}

// Keys returns the store keys in use.
func (s *Settings) Keys() Keys {
	return s.keys
}

// Today returns local midnight of the settings clock.
func (s *Settings) Today() time.Time {
	return dates.Today(s.clock)
}

func (s *Settings) load(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	v, ok, err := s.store.Get(key)
	if err != nil {
		s.log.DebugErr(err).Str("key", key).Msg("read failed, treating as unset")
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *Settings) save(key, value string) {
	if err := s.store.Set(key, value); err != nil {
		s.log.WarnErr(err).Str("key", key).Msg("write failed")
	}
}

func (s *Settings) remove(key string) {
	if err := s.store.Delete(key); err != nil {
		s.log.WarnErr(err).Str("key", key).Msg("delete failed")
	}
}

// Theme returns the stored theme. Unknown values count as unset.
func (s *Settings) Theme() (Theme, bool) {
	v, ok := s.load(s.keys.Theme)
	if !ok {
		return "", false
	}
	t, ok := ParseTheme(v)
	if !ok {
		s.log.Debugf("ignoring unknown theme %q", v)
	}
	return t, ok
}

// ThemeOrDefault returns the stored theme or Light.
func (s *Settings) ThemeOrDefault() Theme {
	if t, ok := s.Theme(); ok {
		return t
	}
	return Light
}

// SetTheme stores t.
func (s *Settings) SetTheme(t Theme) {
	s.save(s.keys.Theme, string(t))
}

// Label returns the stored title or habit name.
func (s *Settings) Label() (string, bool) {
	return s.load(s.keys.Label)
}

// LabelOrDefault returns the stored label or the kind's default.
func (s *Settings) LabelOrDefault() string {
	if l, ok := s.Label(); ok {
		return l
	}
	return DefaultLabel(s.tracker.Kind)
}

// SetLabel stores a trimmed label. Habit names are lower-cased. It
// reports false, storing nothing, when the trimmed label is empty.
func (s *Settings) SetLabel(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	if s.tracker.Kind == Habit {
		label = strings.ToLower(label)
	}
	s.save(s.keys.Label, label)
	return true
}

func (s *Settings) loadDate(key string) (time.Time, bool) {
	v, ok := s.load(key)
	if !ok {
		return time.Time{}, false
	}
	d, err := dates.Parse(v)
	if err != nil {
		s.log.Debugf("ignoring malformed date under %s: %q", key, v)
		return time.Time{}, false
	}
	return d, true
}

// Target returns the countdown target date.
func (s *Settings) Target() (time.Time, bool) {
	return s.loadDate(s.keys.Target)
}

// SetTarget stores the countdown target date.
func (s *Settings) SetTarget(d time.Time) {
	if s.keys.Target == "" {
		return
	}
	s.save(s.keys.Target, dates.Format(d))
}

// Anchor returns the countdown install date.
func (s *Settings) Anchor() (time.Time, bool) {
	return s.loadDate(s.keys.Anchor)
}

// RecordInstall stores today as the countdown install date.
func (s *Settings) RecordInstall() {
	if s.keys.Anchor == "" {
		return
	}
	s.save(s.keys.Anchor, dates.Format(s.Today()))
}

// Completions returns the stored completion set. A malformed list is
// treated as empty.
func (s *Settings) Completions() completion.Set {
	v, ok := s.load(s.keys.Dates)
	if !ok {
		return completion.Set{}
	}
	set, dropped, err := completion.Parse(v)
	if err != nil {
		s.log.DebugErr(err).Str("key", s.keys.Dates).Msg("malformed completion list, treating as empty")
		return completion.Set{}
	}
	if dropped > 0 {
		s.log.Debugf("dropped %d invalid completion entries", dropped)
	}
	return set
}

// SetCompletions stores set as a JSON array.
func (s *Settings) SetCompletions(set completion.Set) {
	if s.keys.Dates == "" {
		return
	}
	s.save(s.keys.Dates, set.String())
}

// Toggle flips the completion of day and stores the result. It returns
// true when day was removed.
func (s *Settings) Toggle(day time.Time) bool {
	next, removed := s.Completions().Toggle(dates.Format(day))
	s.SetCompletions(next)
	return removed
}

// ToggleToday flips today's completion.
func (s *Settings) ToggleToday() bool {
	return s.Toggle(s.Today())
}

// ResetCompletions stores an empty completion list.
func (s *Settings) ResetCompletions() {
	s.SetCompletions(completion.Set{})
}

// Reset deletes every key of the tracker.
func (s *Settings) Reset() {
	for _, k := range s.keys.All() {
		s.remove(k)
	}
}

// Snapshot is a read-only view of a tracker's configuration.
type Snapshot struct {
	Theme     Theme
	HasTheme  bool
	Label     string
	HasLabel  bool
	Anchor    time.Time
	HasAnchor bool
	Target    time.Time
	HasTarget bool
}

// Snapshot reads every value once. Missing theme and label are filled
// with defaults; the Has flags record what was actually stored.
func (s *Settings) Snapshot() Snapshot {
	var snap Snapshot
	snap.Theme, snap.HasTheme = s.Theme()
	if !snap.HasTheme {
		snap.Theme = Light
	}
	snap.Label, snap.HasLabel = s.Label()
	if !snap.HasLabel {
		snap.Label = DefaultLabel(s.tracker.Kind)
	}
	snap.Anchor, snap.HasAnchor = s.Anchor()
	snap.Target, snap.HasTarget = s.Target()
	return snap
}
